package address

// Book is an ordered address collection. Methods return new slices and never
// modify the receiver's backing array.
type Book []Address

func (b Book) Clone() Book {
	out := make(Book, len(b))
	copy(out, b)
	return out
}

func (b Book) Find(id string) (Address, bool) {
	for _, a := range b {
		if a.ID == id {
			return a, true
		}
	}
	return Address{}, false
}

// Default returns the address flagged as default, else the first, else false.
func (b Book) Default() (Address, bool) {
	for _, a := range b {
		if a.IsDefault {
			return a, true
		}
	}
	if len(b) > 0 {
		return b[0], true
	}
	return Address{}, false
}

// Add validates d and appends it with a fresh id. Only an address added to an
// empty book becomes the default.
func (b Book) Add(d Draft) (Book, Address, error) {
	if err := d.Validate(); err != nil {
		return b, Address{}, err
	}
	a := Address{
		ID:        newID(),
		Type:      d.Type,
		Name:      d.Name,
		Street:    d.Street,
		City:      d.City,
		State:     d.State,
		ZipCode:   d.ZipCode,
		Phone:     d.Phone,
		IsDefault: len(b) == 0,
	}
	return append(b.Clone(), a), a, nil
}

// Update merges p into the address with id. Other addresses are untouched, so
// more than one address may end up flagged as default.
func (b Book) Update(id string, p Patch) (Book, Address, error) {
	out := b.Clone()
	for i, a := range out {
		if a.ID == id {
			out[i] = a.apply(p)
			return out, out[i], nil
		}
	}
	return b, Address{}, ErrNotFound
}

func (b Book) Delete(id string) (Book, error) {
	out := make(Book, 0, len(b))
	found := false
	for _, a := range b {
		if a.ID == id {
			found = true
			continue
		}
		out = append(out, a)
	}
	if !found {
		return b, ErrNotFound
	}
	return out, nil
}
