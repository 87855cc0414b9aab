package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sq,
	}
}

func TestStore_Contract(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get(ctx, "cart_1")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Put(ctx, "cart_1", []byte(`{"items":[]}`)))
			require.NoError(t, s.Put(ctx, "orders_1", []byte(`[]`)))
			require.NoError(t, s.Put(ctx, "cart_1", []byte(`{"items":[1]}`)))

			v, ok, err := s.Get(ctx, "cart_1")
			require.NoError(t, err)
			require.True(t, ok)
			assert.JSONEq(t, `{"items":[1]}`, string(v))

			many, err := s.GetMany(ctx, []string{"cart_1", "orders_1", "addresses_1"})
			require.NoError(t, err)
			assert.Len(t, many, 2)

			require.NoError(t, s.Delete(ctx, "cart_1"))
			require.NoError(t, s.Delete(ctx, "cart_1"))
			_, ok, err = s.Get(ctx, "cart_1")
			require.NoError(t, err)
			assert.False(t, ok)

			assert.ErrorIs(t, s.Put(ctx, "", nil), ErrEmptyKey)
		})
	}
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, Key("orders", 3), []byte(`[{"id":"ORD123456"}]`)))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get(ctx, "orders_3")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(v), "ORD123456")
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	type rec struct {
		Name string `json:"name"`
	}
	require.NoError(t, PutJSON(ctx, s, "r", rec{Name: "x"}))

	var got rec
	ok, err := GetJSON(ctx, s, "r", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", got.Name)

	require.NoError(t, s.Put(ctx, "bad", []byte("{")))
	ok, err = GetJSON(ctx, s, "bad", &got)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestDecodeJSON(t *testing.T) {
	found := map[string][]byte{"ok": []byte(`{"name":"y"}`), "bad": []byte("{")}

	var got struct {
		Name string `json:"name"`
	}
	ok, err := DecodeJSON(found, "ok", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "y", got.Name)

	ok, err = DecodeJSON(found, "missing", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = DecodeJSON(found, "bad", &got)
	assert.Error(t, err)
	assert.False(t, ok)
}
