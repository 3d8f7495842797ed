// Package domain defines the core entities shared by the account and notes services.
package domain

import (
	"time"

	"github.com/uptrace/bun"
)

// User represents a registered account.
// The password hash never leaves the account service.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	FirstName    string    `bun:"first_name,notnull" json:"first_name"`
	LastName     string    `bun:"last_name,notnull" json:"last_name"`
	Email        string    `bun:"email,notnull,unique" json:"email"`
	Phone        string    `bun:"phone,notnull" json:"phone"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	ProfileImage *string   `bun:"profile_image" json:"profile_image"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
