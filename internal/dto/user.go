package dto

import "github.com/Additional-Code/exchange/internal/entity"

// UserRequest is the body accepted when creating or replacing a user.
type UserRequest struct {
	ID        *int64  `json:"id" yaml:"id" validate:"required"`
	FirstName *string `json:"first_name" yaml:"first_name" validate:"required"`
	LastName  *string `json:"last_name" yaml:"last_name"`
	Age       *int64  `json:"age" yaml:"age"`
	Email     *string `json:"email" yaml:"email"`
	Role      *string `json:"role" yaml:"role" validate:"required"`
	Phone     *string `json:"phone" yaml:"phone" validate:"required"`
}

// Entity builds the user stored under id. Required fields must have been validated.
func (r *UserRequest) Entity(id int64) *entity.User {
	return &entity.User{
		ID:        id,
		FirstName: *r.FirstName,
		LastName:  r.LastName,
		Age:       r.Age,
		Email:     r.Email,
		Role:      *r.Role,
		Phone:     *r.Phone,
	}
}

// Key returns the id carried in the body.
func (r *UserRequest) Key() *int64 { return r.ID }

// UserResponse represents a user as exposed via transport layers.
type UserResponse struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  *string `json:"last_name"`
	Age       *int64  `json:"age"`
	Email     *string `json:"email"`
	Role      string  `json:"role"`
	Phone     string  `json:"phone"`
}

// NewUserResponse converts a stored user.
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Age:       u.Age,
		Email:     u.Email,
		Role:      u.Role,
		Phone:     u.Phone,
	}
}

// SetKey overrides the body id with the one addressed by the request path.
func (r *UserRequest) SetKey(id int64) { r.ID = &id }
