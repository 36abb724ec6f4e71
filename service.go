package todos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ItemRepo defines the interface for item persistence.
// Items are partitioned by owner; every operation is scoped to one owner id.
//
// All methods accept a context for cancellation and timeout control.
// Backend failures are returned wrapped with ErrStoreUnavailable.
type ItemRepo interface {
	// ListByOwner returns every item belonging to ownerID.
	// Order is backend specific. An owner with no items yields an empty slice.
	ListByOwner(ctx context.Context, ownerID string) ([]Item, error)

	// Get retrieves a single item.
	//
	// Returns:
	//   - Item: the stored item if found
	//   - error: ErrNotFound if (ownerID, itemID) doesn't exist, or backend errors
	Get(ctx context.Context, ownerID, itemID string) (Item, error)

	// Create stores a new item. Writing an item whose (OwnerID, ItemID) already
	// exists overwrites it; callers generate fresh ids so this does not occur.
	Create(ctx context.Context, item Item) (Item, error)

	// Update overwrites the mutable fields (name, due date, done, description,
	// priority points) of an existing item and returns the stored result.
	//
	// Returns ErrNotFound if no row matched (ownerID, itemID); implementations
	// must not create the item as a side effect.
	Update(ctx context.Context, ownerID, itemID string, patch ItemUpdate) (Item, error)

	// UpdateAttachment sets only the attachment URL of an existing item.
	// Returns ErrNotFound if no row matched.
	UpdateAttachment(ctx context.Context, ownerID, itemID, attachmentURL string) error

	// Delete removes an item. Deleting a missing item is not an error.
	Delete(ctx context.Context, ownerID, itemID string) error
}

// AttachmentLocator builds URLs for attachment objects held in object storage.
type AttachmentLocator interface {
	// PublicURL returns the stable read URL of the object. It does not check
	// that the object exists.
	PublicURL(attachmentID string) string

	// PresignUpload returns a short-lived URL that permits uploading exactly
	// the object named attachmentID.
	PresignUpload(ctx context.Context, attachmentID string) (string, error)
}

// ItemService implements the item operations on behalf of an authenticated owner.
type ItemService struct {
	repo    ItemRepo
	locator AttachmentLocator
	now     func() time.Time
	newID   func() string
}

// ServiceConfig holds optional hooks for ItemService.
type ServiceConfig struct {
	Now   func() time.Time // clock used for createdAt (default: time.Now in UTC)
	NewID func() string    // id generator for items and attachments (default: UUID v4)
}

func NewItemService(repo ItemRepo, locator AttachmentLocator, cfg ServiceConfig) (*ItemService, error) {
	if repo == nil {
		return nil, errors.New("new item service: repo is required")
	}
	if locator == nil {
		return nil, errors.New("new item service: attachment locator is required")
	}

	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	newID := cfg.NewID
	if newID == nil {
		newID = func() string { return uuid.NewString() }
	}

	return &ItemService{
		repo:    repo,
		locator: locator,
		now:     now,
		newID:   newID,
	}, nil
}

func (s *ItemService) List(ctx context.Context, ownerID string) ([]Item, error) {
	if err := checkCall(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	return items, nil
}

func (s *ItemService) Get(ctx context.Context, ownerID, itemID string) (Item, error) {
	if err := checkItemCall(ctx, ownerID, itemID); err != nil {
		return Item{}, fmt.Errorf("get item: %w", err)
	}

	item, err := s.repo.Get(ctx, ownerID, itemID)
	if err != nil {
		return Item{}, fmt.Errorf("get item %s: %w", itemID, err)
	}

	return item, nil
}

// Create validates the request and stores a new item with a fresh id, the
// current time as createdAt and done=false.
func (s *ItemService) Create(ctx context.Context, ownerID string, req CreateItem) (Item, error) {
	if err := checkCall(ctx, ownerID); err != nil {
		return Item{}, fmt.Errorf("create item: %w", err)
	}

	if err := req.Validate(); err != nil {
		return Item{}, fmt.Errorf("create item: %w", err)
	}

	item := Item{
		ItemID:         s.newID(),
		OwnerID:        ownerID,
		CreatedAt:      s.now(),
		Name:           req.Name,
		DueDate:        req.DueDate,
		Done:           false,
		Description:    req.Description,
		PriorityPoints: req.PriorityPoints,
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return Item{}, fmt.Errorf("create item: %w", err)
	}

	slog.DebugContext(ctx, "item created", "owner_id", ownerID, "item_id", created.ItemID)
	return created, nil
}

// Update overwrites the mutable fields of an existing item.
// The existence check runs before the write so a missing item is reported as
// ErrNotFound instead of being silently ignored by the store.
func (s *ItemService) Update(ctx context.Context, ownerID, itemID string, req UpdateItem) (Item, error) {
	if err := checkItemCall(ctx, ownerID, itemID); err != nil {
		return Item{}, fmt.Errorf("update item: %w", err)
	}

	if err := req.Validate(); err != nil {
		return Item{}, fmt.Errorf("update item %s: %w", itemID, err)
	}

	if _, err := s.repo.Get(ctx, ownerID, itemID); err != nil {
		return Item{}, fmt.Errorf("update item %s: %w", itemID, err)
	}

	updated, err := s.repo.Update(ctx, ownerID, itemID, req.Patch())
	if err != nil {
		return Item{}, fmt.Errorf("update item %s: %w", itemID, err)
	}

	return updated, nil
}

// RequestUpload issues a signed upload URL for a new attachment of the item
// and records the attachment's public URL on the item.
//
// The public URL is stored before the client uploads anything, so the item
// may reference an object that never arrives. The read and the write are not
// atomic: concurrent updates of the same item are last-write-wins.
func (s *ItemService) RequestUpload(ctx context.Context, ownerID, itemID string) (UploadURL, error) {
	if err := checkItemCall(ctx, ownerID, itemID); err != nil {
		return UploadURL{}, fmt.Errorf("request upload: %w", err)
	}

	if _, err := s.repo.Get(ctx, ownerID, itemID); err != nil {
		return UploadURL{}, fmt.Errorf("request upload %s: %w", itemID, err)
	}

	attachmentID := s.newID()

	uploadURL, err := s.locator.PresignUpload(ctx, attachmentID)
	if err != nil {
		return UploadURL{}, fmt.Errorf("request upload %s: presign: %w", itemID, err)
	}

	publicURL := s.locator.PublicURL(attachmentID)
	if err := s.repo.UpdateAttachment(ctx, ownerID, itemID, publicURL); err != nil {
		return UploadURL{}, fmt.Errorf("request upload %s: %w", itemID, err)
	}

	slog.DebugContext(ctx, "attachment url issued", "owner_id", ownerID, "item_id", itemID, "attachment_id", attachmentID)
	return UploadURL{UploadURL: uploadURL}, nil
}

// Delete removes an item. An id that cannot name an item is a no-op, like any
// other missing item.
func (s *ItemService) Delete(ctx context.Context, ownerID, itemID string) error {
	if err := checkCall(ctx, ownerID); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if !IsValidItemID(itemID) {
		return nil
	}

	if err := s.repo.Delete(ctx, ownerID, itemID); err != nil {
		return fmt.Errorf("delete item %s: %w", itemID, err)
	}

	return nil
}

func checkCall(ctx context.Context, ownerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ownerID == "" {
		return fmt.Errorf("%w: missing owner", ErrUnauthorized)
	}
	return nil
}

func checkItemCall(ctx context.Context, ownerID, itemID string) error {
	if err := checkCall(ctx, ownerID); err != nil {
		return err
	}
	// ids are generated UUIDs; anything else cannot exist for this owner
	if !IsValidItemID(itemID) {
		return fmt.Errorf("item %q: %w", itemID, ErrNotFound)
	}
	return nil
}
