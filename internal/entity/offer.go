package entity

import "github.com/uptrace/bun"

// Offer is a user's bid to execute an order.
type Offer struct {
	bun.BaseModel `bun:"table:offers"`

	ID         int64  `bun:"id,pk"`
	OrderID    *int64 `bun:"order_id"`
	ExecutorID *int64 `bun:"executor_id"`
}

// PrimaryKey returns the offer id.
func (o *Offer) PrimaryKey() int64 { return o.ID }
