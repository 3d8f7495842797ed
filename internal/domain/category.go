package domain

import (
	"time"

	"github.com/uptrace/bun"
)

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#667eea"

// Category groups notes for a single owner. Names are free-form and may
// repeat; only the owning user can see or modify a category.
type Category struct {
	bun.BaseModel `bun:"table:categories"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description *string   `bun:"description" json:"description"`
	Color       string    `bun:"color,notnull,default:'#667eea'" json:"color"`
	UserID      int64     `bun:"user_id,notnull" json:"user_id"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
