package domain

import (
	"time"

	"github.com/uptrace/bun"
)

// Tag is a per-user label attached to notes through the note_tags join
// table. Tag names are unique per owner; creating an existing name returns
// the existing row.
type Tag struct {
	bun.BaseModel `bun:"table:tags"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	UserID    int64     `bun:"user_id,notnull" json:"user_id"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// NoteTag is the many-to-many join row between notes and tags.
type NoteTag struct {
	bun.BaseModel `bun:"table:note_tags"`

	NoteID int64 `bun:"note_id,pk" json:"note_id"`
	Note   *Note `bun:"rel:belongs-to,join:note_id=id" json:"-"`
	TagID  int64 `bun:"tag_id,pk" json:"tag_id"`
	Tag    *Tag  `bun:"rel:belongs-to,join:tag_id=id" json:"-"`
}
