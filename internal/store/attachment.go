package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gof-esteira/oficios-api/internal/store/model"
	"gorm.io/gorm"
)

type Attachment interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Attachment, error)
}

type AttachmentStore struct {
	db *gorm.DB
}

var _ Attachment = (*AttachmentStore)(nil)

func NewAttachmentStore(db *gorm.DB) Attachment {
	return &AttachmentStore{db: db}
}

func (s *AttachmentStore) Get(ctx context.Context, id uuid.UUID) (*model.Attachment, error) {
	var attachment model.Attachment
	result := s.getDB(ctx).First(&attachment, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying attachment: %w", result.Error)
	}
	return &attachment, nil
}

func (s *AttachmentStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
