package dynamodb

import (
	"fmt"
	"time"

	"github.com/sagarc03/todos"
)

const (
	attrOwnerID        = "ownerId"
	attrItemID         = "itemId"
	attrName           = "name"
	attrDueDate        = "dueDate"
	attrDone           = "done"
	attrDescription    = "description"
	attrPriorityPoints = "priorityPoints"
	attrAttachmentURL  = "attachmentUrl"
)

// record is the stored shape of an item.
type record struct {
	OwnerID        string `dynamodbav:"ownerId"`
	ItemID         string `dynamodbav:"itemId"`
	CreatedAt      string `dynamodbav:"createdAt"`
	Name           string `dynamodbav:"name"`
	DueDate        string `dynamodbav:"dueDate"`
	Done           bool   `dynamodbav:"done"`
	Description    string `dynamodbav:"description,omitempty"`
	PriorityPoints int    `dynamodbav:"priorityPoints,omitempty"`
	AttachmentURL  string `dynamodbav:"attachmentUrl,omitempty"`
}

func fromItem(item todos.Item) record {
	return record{
		OwnerID:        item.OwnerID,
		ItemID:         item.ItemID,
		CreatedAt:      item.CreatedAt.UTC().Format(time.RFC3339Nano),
		Name:           item.Name,
		DueDate:        item.DueDate,
		Done:           item.Done,
		Description:    item.Description,
		PriorityPoints: item.PriorityPoints,
		AttachmentURL:  item.AttachmentURL,
	}
}

func (r record) toItem() (todos.Item, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return todos.Item{}, fmt.Errorf("parse createdAt of %s: %w", r.ItemID, err)
	}

	return todos.Item{
		ItemID:         r.ItemID,
		OwnerID:        r.OwnerID,
		CreatedAt:      createdAt,
		Name:           r.Name,
		DueDate:        r.DueDate,
		Done:           r.Done,
		Description:    r.Description,
		PriorityPoints: r.PriorityPoints,
		AttachmentURL:  r.AttachmentURL,
	}, nil
}
