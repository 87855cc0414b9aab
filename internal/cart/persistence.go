package cart

import (
	"context"

	"github.com/wichananm65/shopease/internal/storage"
)

const recordPrefix = "cart"

// Persistence reads and writes the cart record of one user.
type Persistence struct {
	records storage.Store
}

func NewPersistence(records storage.Store) *Persistence {
	return &Persistence{records: records}
}

// Load returns the saved cart. A missing record yields an empty cart; a corrupt
// one yields an empty cart and the decode error.
func (p *Persistence) Load(ctx context.Context, userID int) (State, error) {
	var s State
	ok, err := storage.GetJSON(ctx, p.records, storage.Key(recordPrefix, userID), &s)
	if err != nil || !ok {
		return State{Items: []LineItem{}}, err
	}
	return Reduce(State{}, Load{State: s}), nil
}

func (p *Persistence) Save(ctx context.Context, userID int, s State) error {
	return storage.PutJSON(ctx, p.records, storage.Key(recordPrefix, userID), s)
}

func (p *Persistence) Delete(ctx context.Context, userID int) error {
	return p.records.Delete(ctx, storage.Key(recordPrefix, userID))
}
