package cart

import "github.com/wichananm65/shopease/internal/coupon"

// Action is a cart mutation. Every change to a State goes through Reduce.
type Action interface {
	isAction()
}

type AddItem struct{ Item LineItem }
type RemoveItem struct{ ProductID int }
type UpdateQuantity struct {
	ProductID int
	Quantity  int
}
type ApplyCoupon struct{ Coupon coupon.Coupon }
type RemoveCoupon struct{}
type Clear struct{}
type Load struct{ State State }

func (AddItem) isAction()        {}
func (RemoveItem) isAction()     {}
func (UpdateQuantity) isAction() {}
func (ApplyCoupon) isAction()    {}
func (RemoveCoupon) isAction()   {}
func (Clear) isAction()          {}
func (Load) isAction()           {}

// Reduce returns the state that results from applying a to s. s is not modified.
// Actions on product ids that are not in the cart leave it unchanged.
func Reduce(s State, a Action) State {
	next := s.Clone()
	switch a := a.(type) {
	case AddItem:
		if i := next.indexOf(a.Item.ProductID); i >= 0 {
			next.Items[i].Quantity++
			return next
		}
		item := a.Item
		item.Quantity = 1
		next.Items = append(next.Items, item)
	case RemoveItem:
		if i := next.indexOf(a.ProductID); i >= 0 {
			next.Items = append(next.Items[:i], next.Items[i+1:]...)
		}
	case UpdateQuantity:
		if a.Quantity <= 0 {
			return Reduce(s, RemoveItem{ProductID: a.ProductID})
		}
		if i := next.indexOf(a.ProductID); i >= 0 {
			next.Items[i].Quantity = a.Quantity
		}
	case ApplyCoupon:
		c := a.Coupon
		next.Coupon = &c
	case RemoveCoupon:
		next.Coupon = nil
	case Clear:
		return State{Items: []LineItem{}}
	case Load:
		return a.State.Clone().normalize()
	}
	return next
}
