package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draft() Draft {
	return Draft{Name: "Ada", Street: "1 Loop Rd", City: "Pune", State: "MH", ZipCode: "411001", Phone: "+91 1"}
}

func TestDefaults(t *testing.T) {
	d := Defaults("Demo")
	require.Len(t, d, 2)
	assert.Equal(t, Home, d[0].Type)
	assert.True(t, d[0].IsDefault)
	assert.False(t, d[1].IsDefault)
	assert.Equal(t, "Demo", d[1].Name)
	assert.NotEqual(t, d[0].ID, d[1].ID)

	assert.Equal(t, "User", Defaults("")[0].Name)
}

func TestBook_AddFirstIsDefault(t *testing.T) {
	var b Book
	b, first, err := b.Add(draft())
	require.NoError(t, err)
	assert.True(t, first.IsDefault)
	assert.Equal(t, Home, first.Type)

	b, second, err := b.Add(draft())
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, b, 2)
}

func TestBook_AddValidation(t *testing.T) {
	d := draft()
	d.City = "  "
	d.Phone = ""
	d.Type = "Cabin"

	b, _, err := Book{}.Add(d)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "City is required", verr.Fields["city"])
	assert.Equal(t, "Phone number is required", verr.Fields["phone"])
	assert.Contains(t, verr.Fields, "type")
	assert.Empty(t, b)
}

func TestBook_UpdateMergesSetFields(t *testing.T) {
	b := Book(Defaults("Demo"))
	city := "Mumbai"
	isDefault := true

	b2, got, err := b.Update(b[1].ID, Patch{City: &city, IsDefault: &isDefault})
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", got.City)
	assert.Equal(t, "456 Business Ave", got.Street)
	// both flagged, no uniqueness enforced on edit
	assert.True(t, b2[0].IsDefault)
	assert.True(t, b2[1].IsDefault)
	// receiver untouched
	assert.Equal(t, "Pune", b[1].City)

	_, _, err = b.Update("missing", Patch{City: &city})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBook_Delete(t *testing.T) {
	b := Book(Defaults("Demo"))
	b2, err := b.Delete(b[0].ID)
	require.NoError(t, err)
	require.Len(t, b2, 1)
	assert.Equal(t, Work, b2[0].Type)

	d, ok := b2.Default()
	require.True(t, ok)
	assert.Equal(t, b2[0].ID, d.ID)

	_, err = b2.Delete("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, ok = Book{}.Default()
	assert.False(t, ok)
}
