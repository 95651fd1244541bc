package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gof-esteira/oficios-api/internal/store/model"
	"gorm.io/gorm"
)

type Protocol interface {
	Create(ctx context.Context, record model.ProtocolRecord) (*model.ProtocolRecord, error)
	Get(ctx context.Context, id uuid.UUID) (*model.ProtocolRecord, error)
	List(ctx context.Context, filter *ProtocolQueryFilter) (model.ProtocolRecordList, error)
	InitialMigration(ctx context.Context) error
}

type ProtocolStore struct {
	db *gorm.DB
}

// Make sure we conform to Protocol interface
var _ Protocol = (*ProtocolStore)(nil)

func NewProtocolStore(db *gorm.DB) Protocol {
	return &ProtocolStore{db: db}
}

func (s *ProtocolStore) InitialMigration(ctx context.Context) error {
	return s.getDB(ctx).AutoMigrate(&model.ProtocolRecord{})
}

func (s *ProtocolStore) Create(ctx context.Context, record model.ProtocolRecord) (*model.ProtocolRecord, error) {
	result := s.getDB(ctx).Create(&record)
	if result.Error != nil {
		return nil, fmt.Errorf("creating protocol record: %w", result.Error)
	}
	return &record, nil
}

func (s *ProtocolStore) Get(ctx context.Context, id uuid.UUID) (*model.ProtocolRecord, error) {
	var record model.ProtocolRecord
	result := s.getDB(ctx).First(&record, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying protocol record: %w", result.Error)
	}
	return &record, nil
}

func (s *ProtocolStore) List(ctx context.Context, filter *ProtocolQueryFilter) (model.ProtocolRecordList, error) {
	var records model.ProtocolRecordList
	tx := s.getDB(ctx).Model(&model.ProtocolRecord{}).Order("created_at")
	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}
	if result := tx.Find(&records); result.Error != nil {
		return nil, result.Error
	}
	return records, nil
}

func (s *ProtocolStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
