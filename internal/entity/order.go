package entity

import "github.com/uptrace/bun"

// Order represents a job posted by a customer and optionally assigned to an executor.
// CustomerID and ExecutorID reference users without enforced integrity.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID          int64   `bun:"id,pk"`
	Name        string  `bun:"name,notnull"`
	Description string  `bun:"description,notnull"`
	StartDate   *string `bun:"start_date"`
	EndDate     *string `bun:"end_date"`
	Address     string  `bun:"address,notnull"`
	Price       int64   `bun:"price,notnull"`
	CustomerID  *int64  `bun:"customer_id"`
	ExecutorID  *int64  `bun:"executor_id"`
}

// PrimaryKey returns the order id.
func (o *Order) PrimaryKey() int64 { return o.ID }
