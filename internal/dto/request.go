package dto

import "github.com/Additional-Code/exchange/internal/entity"

// Request is implemented by the typed body schemas of every entity.
type Request[T any] interface {
	Entity(id int64) *T
	Key() *int64
	SetKey(id int64)
}

// RequestOf constrains pointers to request schemas so they can be allocated generically.
type RequestOf[R any, T any] interface {
	*R
	Request[T]
}

var (
	_ Request[entity.User]  = (*UserRequest)(nil)
	_ Request[entity.Order] = (*OrderRequest)(nil)
	_ Request[entity.Offer] = (*OfferRequest)(nil)
)
