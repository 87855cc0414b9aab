package address

import (
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("address not found")
)

type Type string

const (
	Home  Type = "Home"
	Work  Type = "Work"
	Other Type = "Other"
)

func (t Type) Valid() bool {
	return t == Home || t == Work || t == Other
}

type Address struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Name      string `json:"name"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Phone     string `json:"phone"`
	IsDefault bool   `json:"isDefault"`
}

// Draft carries the fields of an address being created.
type Draft struct {
	Type    Type   `json:"type"`
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Phone   string `json:"phone"`
}

// Patch carries the fields of an address edit; nil fields are left alone.
type Patch struct {
	Type      *Type   `json:"type,omitempty"`
	Name      *string `json:"name,omitempty"`
	Street    *string `json:"street,omitempty"`
	City      *string `json:"city,omitempty"`
	State     *string `json:"state,omitempty"`
	ZipCode   *string `json:"zipCode,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	IsDefault *bool   `json:"isDefault,omitempty"`
}

// ValidationError maps form fields to user-facing messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the required fields of d. An empty type defaults to Home.
func (d *Draft) Validate() error {
	errs := map[string]string{}
	if strings.TrimSpace(d.Name) == "" {
		errs["name"] = "Name is required"
	}
	if strings.TrimSpace(d.Street) == "" {
		errs["street"] = "Street address is required"
	}
	if strings.TrimSpace(d.City) == "" {
		errs["city"] = "City is required"
	}
	if strings.TrimSpace(d.State) == "" {
		errs["state"] = "State is required"
	}
	if strings.TrimSpace(d.ZipCode) == "" {
		errs["zipCode"] = "ZIP code is required"
	}
	if strings.TrimSpace(d.Phone) == "" {
		errs["phone"] = "Phone number is required"
	}
	if d.Type == "" {
		d.Type = Home
	} else if !d.Type.Valid() {
		errs["type"] = "Type must be Home, Work or Other"
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func (a Address) apply(p Patch) Address {
	if p.Type != nil && p.Type.Valid() {
		a.Type = *p.Type
	}
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Street != nil {
		a.Street = *p.Street
	}
	if p.City != nil {
		a.City = *p.City
	}
	if p.State != nil {
		a.State = *p.State
	}
	if p.ZipCode != nil {
		a.ZipCode = *p.ZipCode
	}
	if p.Phone != nil {
		a.Phone = *p.Phone
	}
	if p.IsDefault != nil {
		a.IsDefault = *p.IsDefault
	}
	return a
}

func newID() string {
	return uuid.NewString()
}

// Defaults are the two addresses seeded for a user on first login.
func Defaults(name string) []Address {
	if name == "" {
		name = "User"
	}
	return []Address{
		{ID: newID(), Type: Home, Name: name, Street: "123 Main Street", City: "Pune", State: "MH", ZipCode: "10001", Phone: "+91 234 567 8900", IsDefault: true},
		{ID: newID(), Type: Work, Name: name, Street: "456 Business Ave", City: "Pune", State: "MH", ZipCode: "10002", Phone: "+91 234 567 8900"},
	}
}
