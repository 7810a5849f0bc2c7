package dto

import "github.com/Additional-Code/exchange/internal/entity"

// OrderRequest is the body accepted when creating or replacing an order.
type OrderRequest struct {
	ID          *int64  `json:"id" yaml:"id" validate:"required"`
	Name        *string `json:"name" yaml:"name" validate:"required"`
	Description *string `json:"description" yaml:"description" validate:"required"`
	StartDate   *string `json:"start_date" yaml:"start_date"`
	EndDate     *string `json:"end_date" yaml:"end_date"`
	Address     *string `json:"address" yaml:"address" validate:"required"`
	Price       *int64  `json:"price" yaml:"price" validate:"required"`
	CustomerID  *int64  `json:"customer_id" yaml:"customer_id"`
	ExecutorID  *int64  `json:"executor_id" yaml:"executor_id"`
}

// Entity builds the order stored under id. Required fields must have been validated.
func (r *OrderRequest) Entity(id int64) *entity.Order {
	return &entity.Order{
		ID:          id,
		Name:        *r.Name,
		Description: *r.Description,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Address:     *r.Address,
		Price:       *r.Price,
		CustomerID:  r.CustomerID,
		ExecutorID:  r.ExecutorID,
	}
}

// Key returns the id carried in the body.
func (r *OrderRequest) Key() *int64 { return r.ID }

// OrderResponse represents an order as exposed via transport layers.
type OrderResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Address     string  `json:"address"`
	Price       int64   `json:"price"`
	CustomerID  *int64  `json:"customer_id"`
	ExecutorID  *int64  `json:"executor_id"`
}

// NewOrderResponse converts a stored order.
func NewOrderResponse(o *entity.Order) OrderResponse {
	return OrderResponse{
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		StartDate:   o.StartDate,
		EndDate:     o.EndDate,
		Address:     o.Address,
		Price:       o.Price,
		CustomerID:  o.CustomerID,
		ExecutorID:  o.ExecutorID,
	}
}

// SetKey overrides the body id with the one addressed by the request path.
func (r *OrderRequest) SetKey(id int64) { r.ID = &id }
