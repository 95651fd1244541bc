package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/gof-esteira/oficios-api/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Pipeline interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	InitialMigration(ctx context.Context) error
}

type PipelineStore struct {
	db *gorm.DB
}

var _ Pipeline = (*PipelineStore)(nil)

func NewPipelineStore(db *gorm.DB) Pipeline {
	return &PipelineStore{db: db}
}

func (s *PipelineStore) InitialMigration(ctx context.Context) error {
	return s.getDB(ctx).AutoMigrate(&model.PipelineControl{})
}

func (s *PipelineStore) Get(ctx context.Context, key string) (string, error) {
	var control model.PipelineControl
	result := s.getDB(ctx).First(&control, "key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", ErrRecordNotFound
		}
		return "", fmt.Errorf("querying pipeline control: %w", result.Error)
	}
	return control.Value, nil
}

func (s *PipelineStore) Set(ctx context.Context, key, value string) error {
	control := model.PipelineControl{Key: key, Value: value}
	result := s.getDB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&control)
	if result.Error != nil {
		return fmt.Errorf("setting pipeline control: %w", result.Error)
	}
	return nil
}

func (s *PipelineStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
