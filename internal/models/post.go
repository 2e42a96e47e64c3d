package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Post status values.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Post represents a blog post. Soft deletion is an explicit nullable
// timestamp rather than GORM's DeletedAt hook type, so deleted rows stay
// reachable by direct ID lookup and the repository controls every predicate.
type Post struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title     string     `json:"title" gorm:"type:varchar(255);not null" validate:"required,min=1,max=255"`
	Slug      string     `json:"slug" gorm:"uniqueIndex;type:varchar(255)"`
	Content   string     `json:"content" gorm:"type:text;not null" validate:"required"`
	AuthorID  string     `json:"author_id" gorm:"index;type:varchar(36);not null"`
	Author    *AuthorRef `json:"author,omitempty" gorm:"-"`
	Status    string     `json:"status" gorm:"type:varchar(16);default:draft" validate:"omitempty,oneof=draft published"`
	Tags      Tags       `json:"tags" gorm:"type:text"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// AuthorRef is the reduced author projection embedded in post responses
// in place of the raw author reference.
type AuthorRef struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Tags is an ordered list of tag strings, stored as a single JSON-encoded
// text column so the same model works on both SQLite and PostgreSQL.
type Tags []string

// Value implements driver.Valuer.
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		t = Tags{}
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (t *Tags) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = Tags{}
		return nil
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("unsupported type %T for tags column", value)
	}
}

// Contains reports whether the given tag is present.
func (t Tags) Contains(tag string) bool {
	for _, candidate := range t {
		if candidate == tag {
			return true
		}
	}
	return false
}
