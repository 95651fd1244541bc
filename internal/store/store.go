package store

import (
	"context"

	"gorm.io/gorm"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Document() Document
	Attachment() Attachment
	Protocol() Protocol
	User() User
	Pipeline() Pipeline
	InitialMigration() error
	Close() error
}

type DataStore struct {
	db         *gorm.DB
	document   Document
	attachment Attachment
	protocol   Protocol
	user       User
	pipeline   Pipeline
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:         db,
		document:   NewDocumentStore(db),
		attachment: NewAttachmentStore(db),
		protocol:   NewProtocolStore(db),
		user:       NewUserStore(db),
		pipeline:   NewPipelineStore(db),
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Document() Document {
	return s.document
}

func (s *DataStore) Attachment() Attachment {
	return s.attachment
}

func (s *DataStore) Protocol() Protocol {
	return s.protocol
}

func (s *DataStore) User() User {
	return s.user
}

func (s *DataStore) Pipeline() Pipeline {
	return s.pipeline
}

func (s *DataStore) InitialMigration() error {
	ctx := context.Background()
	if err := s.Document().InitialMigration(ctx); err != nil {
		return err
	}
	if err := s.Protocol().InitialMigration(ctx); err != nil {
		return err
	}
	if err := s.User().InitialMigration(ctx); err != nil {
		return err
	}
	return s.Pipeline().InitialMigration(ctx)
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
