package dto

import "github.com/Additional-Code/exchange/internal/entity"

// OfferRequest is the body accepted when creating or replacing an offer.
type OfferRequest struct {
	ID         *int64 `json:"id" yaml:"id" validate:"required"`
	OrderID    *int64 `json:"order_id" yaml:"order_id"`
	ExecutorID *int64 `json:"executor_id" yaml:"executor_id"`
}

// Entity builds the offer stored under id.
func (r *OfferRequest) Entity(id int64) *entity.Offer {
	return &entity.Offer{
		ID:         id,
		OrderID:    r.OrderID,
		ExecutorID: r.ExecutorID,
	}
}

// Key returns the id carried in the body.
func (r *OfferRequest) Key() *int64 { return r.ID }

// OfferResponse represents an offer as exposed via transport layers.
type OfferResponse struct {
	ID         int64  `json:"id"`
	OrderID    *int64 `json:"order_id"`
	ExecutorID *int64 `json:"executor_id"`
}

// NewOfferResponse converts a stored offer.
func NewOfferResponse(o *entity.Offer) OfferResponse {
	return OfferResponse{
		ID:         o.ID,
		OrderID:    o.OrderID,
		ExecutorID: o.ExecutorID,
	}
}

// SetKey overrides the body id with the one addressed by the request path.
func (r *OfferRequest) SetKey(id int64) { r.ID = &id }
