package domain

import (
	"time"

	"github.com/uptrace/bun"
)

// Note is the central entity of the notes service. Deleting a note is a
// soft delete by default; DeletedAt keeps the row recoverable until a
// permanent delete removes it.
type Note struct {
	bun.BaseModel `bun:"table:notes"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	Title      string    `bun:"title,notnull" json:"title"`
	Content    string    `bun:"content,notnull,default:''" json:"content"`
	IsFavorite bool      `bun:"is_favorite,notnull,default:false" json:"is_favorite"`
	UserID     int64     `bun:"user_id,notnull" json:"user_id"`
	CategoryID *int64    `bun:"category_id" json:"category_id"`
	Category   *Category `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
	Tags       []*Tag    `bun:"m2m:note_tags,join:Note=Tag" json:"tags"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt  time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}
