package entity

import "github.com/uptrace/bun"

// User is a marketplace participant acting as a customer or an executor.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID        int64   `bun:"id,pk"`
	FirstName string  `bun:"first_name,notnull"`
	LastName  *string `bun:"last_name"`
	Age       *int64  `bun:"age"`
	Email     *string `bun:"email,unique"`
	Role      string  `bun:"role,notnull"`
	Phone     string  `bun:"phone,notnull,unique"`
}

// PrimaryKey returns the user id.
func (u *User) PrimaryKey() int64 { return u.ID }
