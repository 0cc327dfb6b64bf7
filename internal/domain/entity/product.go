package entity

import (
	"time"
)

type Product struct {
	ID             string    `json:"id" firestore:"-"`
	Title          string    `json:"title" firestore:"title"`
	Description    string    `json:"description" firestore:"description"`
	Price          float64   `json:"price" firestore:"price"`
	PickupLocation string    `json:"pickup_location" firestore:"pickupLocation"`
	PickupTime     time.Time `json:"pickup_time" firestore:"pickupTime"`
	OwnerID        string    `json:"owner_id" firestore:"ownerID"`
	IsTrading      bool      `json:"is_trading" firestore:"isTrading"`
	OwnerType      Role      `json:"owner_type" firestore:"ownerType"`
}

// ProductFilter is a conjunction of equality filters. Zero-valued fields do not filter.
type ProductFilter struct {
	OwnerID   string `json:"owner_id,omitempty"`
	OwnerType Role   `json:"owner_type,omitempty"`
	IsTrading *bool  `json:"is_trading,omitempty"`
}

func (f ProductFilter) Matches(p *Product) bool {
	if p == nil {
		return false
	}
	if f.OwnerID != "" && p.OwnerID != f.OwnerID {
		return false
	}
	if f.OwnerType != "" && p.OwnerType != f.OwnerType {
		return false
	}
	if f.IsTrading != nil && p.IsTrading != *f.IsTrading {
		return false
	}
	return true
}

// Bool returns a pointer to b, for building filters.
func Bool(b bool) *bool {
	return &b
}
