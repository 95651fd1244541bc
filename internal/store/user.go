package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/gof-esteira/oficios-api/internal/store/model"
	"gorm.io/gorm"
)

type User interface {
	Get(ctx context.Context, username string) (*model.User, error)
	Create(ctx context.Context, user model.User) (*model.User, error)
	InitialMigration(ctx context.Context) error
}

type UserStore struct {
	db *gorm.DB
}

var _ User = (*UserStore)(nil)

func NewUserStore(db *gorm.DB) User {
	return &UserStore{db: db}
}

func (s *UserStore) InitialMigration(ctx context.Context) error {
	return s.getDB(ctx).AutoMigrate(&model.User{})
}

func (s *UserStore) Get(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	result := s.getDB(ctx).First(&user, "username = ?", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying user: %w", result.Error)
	}
	return &user, nil
}

func (s *UserStore) Create(ctx context.Context, user model.User) (*model.User, error) {
	result := s.getDB(ctx).Create(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("creating user: %w", result.Error)
	}
	return &user, nil
}

func (s *UserStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
