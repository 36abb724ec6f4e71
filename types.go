package todos

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Item is a single TODO entry owned by one authenticated caller.
type Item struct {
	ItemID         string    `json:"itemId"`
	OwnerID        string    `json:"ownerId"`
	CreatedAt      time.Time `json:"createdAt"`
	Name           string    `json:"name"`
	DueDate        string    `json:"dueDate"`
	Done           bool      `json:"done"`
	Description    string    `json:"description,omitempty"`
	PriorityPoints int       `json:"priorityPoints,omitempty"`
	AttachmentURL  string    `json:"attachmentUrl,omitempty"`
}

// CreateItem is the caller-supplied part of a new item.
type CreateItem struct {
	Name           string `json:"name" validate:"required,max=256"`
	DueDate        string `json:"dueDate" validate:"required,datetime=2006-01-02"`
	Description    string `json:"description" validate:"max=4096"`
	PriorityPoints int    `json:"priorityPoints" validate:"min=0"`
}

// UpdateItem carries the full set of mutable fields. Every field overwrites
// the stored value, including zero values.
type UpdateItem struct {
	Name           string `json:"name" validate:"required,max=256"`
	DueDate        string `json:"dueDate" validate:"required,datetime=2006-01-02"`
	Done           bool   `json:"done"`
	Description    string `json:"description" validate:"max=4096"`
	PriorityPoints int    `json:"priorityPoints" validate:"min=0"`
}

// ItemUpdate is the field set a repository overwrites on update.
type ItemUpdate struct {
	Name           string
	DueDate        string
	Done           bool
	Description    string
	PriorityPoints int
}

// Patch converts the request into the repository field set.
func (u UpdateItem) Patch() ItemUpdate {
	return ItemUpdate(u)
}

// Apply returns a copy of item with the mutable fields replaced by u.
func (u ItemUpdate) Apply(item Item) Item {
	item.Name = u.Name
	item.DueDate = u.DueDate
	item.Done = u.Done
	item.Description = u.Description
	item.PriorityPoints = u.PriorityPoints
	return item
}

// UploadURL is returned by the attachment upload flow.
type UploadURL struct {
	UploadURL string `json:"uploadUrl"`
}

// Tables holds configurable table names for item storage.
type Tables struct {
	Items string `mapstructure:"items"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set and valid for SQL backends.
func (t Tables) Validate() error {
	if t.Items == "" {
		return errors.New("validate tables: items table name cannot be empty")
	}

	if !IsValidTableName(t.Items) {
		return fmt.Errorf("validate tables: invalid items table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", t.Items)
	}

	return nil
}
