package payment

import "errors"

var ErrUnknownMethod = errors.New("unknown payment method")

// Method is a way to pay chosen at checkout. Methods are selected, never owned.
type Method struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

const (
	Card       = "card"
	UPI        = "upi"
	NetBanking = "netbanking"
	COD        = "cod"
)

var methods = []Method{
	{ID: Card, Name: "Credit/Debit Card"},
	{ID: UPI, Name: "UPI"},
	{ID: NetBanking, Name: "Net Banking"},
	{ID: COD, Name: "Cash on Delivery"},
}

// Methods lists the supported payment methods in display order.
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

func Lookup(id string) (Method, error) {
	for _, m := range methods {
		if m.ID == id {
			return m, nil
		}
	}
	return Method{}, ErrUnknownMethod
}
