package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gof-esteira/oficios-api/internal/store/model"
	"gorm.io/gorm"
)

type Document interface {
	List(ctx context.Context, filter *DocumentQueryFilter, opts *DocumentQueryOptions) (model.DocumentList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Document, error)
	Create(ctx context.Context, document model.Document) (*model.Document, error)
	ExistsByMessageID(ctx context.Context, messageID string) (bool, error)
	Count(ctx context.Context, filter *DocumentQueryFilter) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
	Annotate(ctx context.Context, id uuid.UUID, annotation model.Annotation, newStatus string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, allowedFrom []string, newStatus string) error
	InitialMigration(ctx context.Context) error
}

type DocumentStore struct {
	db *gorm.DB
}

// Make sure we conform to Document interface
var _ Document = (*DocumentStore)(nil)

func NewDocumentStore(db *gorm.DB) Document {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) InitialMigration(ctx context.Context) error {
	return s.getDB(ctx).AutoMigrate(&model.Document{}, &model.Attachment{})
}

func (s *DocumentStore) List(ctx context.Context, filter *DocumentQueryFilter, opts *DocumentQueryOptions) (model.DocumentList, error) {
	var documents model.DocumentList
	tx := s.getDB(ctx).Model(&model.Document{}).Preload("Attachments")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}
	if opts != nil {
		for _, fn := range opts.QueryFn {
			tx = fn(tx)
		}
	}

	if result := tx.Find(&documents); result.Error != nil {
		return nil, result.Error
	}
	return documents, nil
}

func (s *DocumentStore) Get(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	document := model.NewDocumentFromID(id)
	result := s.getDB(ctx).Preload("Attachments").Preload("ProtocolRecords").First(&document)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying document: %w", result.Error)
	}
	return document, nil
}

func (s *DocumentStore) Create(ctx context.Context, document model.Document) (*model.Document, error) {
	result := s.getDB(ctx).Create(&document)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("creating document: %w", result.Error)
	}
	return &document, nil
}

func (s *DocumentStore) ExistsByMessageID(ctx context.Context, messageID string) (bool, error) {
	var count int64
	result := s.getDB(ctx).Model(&model.Document{}).Where("message_id = ?", messageID).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

func (s *DocumentStore) Count(ctx context.Context, filter *DocumentQueryFilter) (int64, error) {
	var count int64
	tx := s.getDB(ctx).Model(&model.Document{})
	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}
	if result := tx.Count(&count); result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

func (s *DocumentStore) CountByStatus(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Status string
		Total  int
	}
	result := s.getDB(ctx).Model(&model.Document{}).
		Select("status, count(*) as total").
		Group("status").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}

// Annotate persists the classifier verdict and the mapped status in a single
// guarded update. The guard restricts the write to pre-decision statuses so a
// concurrent file or report action is never overwritten; a lost race surfaces
// as ErrStaleStatus.
func (s *DocumentStore) Annotate(ctx context.Context, id uuid.UUID, annotation model.Annotation, newStatus string) error {
	now := time.Now()
	updates := map[string]any{
		"suggested_action": annotation.SuggestedAction,
		"reason":           annotation.Reason,
		"confidence":       annotation.Confidence,
		"missing_fields":   model.MakeJSONField(annotation.MissingFields),
		"annotated_at":     now,
		"status":           newStatus,
	}

	result := s.getDB(ctx).Model(&model.Document{}).
		Where("id = ?", id).
		Where("status IN ?", []string{model.StatusPending, model.StatusRevisao, model.StatusInvalid, model.StatusIncompleto}).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("annotating document: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// UpdateStatus moves the document to newStatus only if its current status is
// in allowedFrom. Zero rows affected means the row either vanished or left
// the allowed set concurrently; the caller disambiguates.
func (s *DocumentStore) UpdateStatus(ctx context.Context, id uuid.UUID, allowedFrom []string, newStatus string) error {
	result := s.getDB(ctx).Model(&model.Document{}).
		Where("id = ?", id).
		Where("status IN ?", allowedFrom).
		Update("status", newStatus)
	if result.Error != nil {
		return fmt.Errorf("updating document status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (s *DocumentStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
