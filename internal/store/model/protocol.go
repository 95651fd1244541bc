package model

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Protocol actions recorded against a document.
const (
	ProtocolActionFile    = "file"
	ProtocolActionReport  = "report"
	ProtocolActionResolve = "resolve"
)

// ProtocolRecord is the audit entry created whenever a user files, reports
// or resolves a document. Records are immutable once created.
type ProtocolRecord struct {
	gorm.Model
	ID         uuid.UUID `gorm:"primaryKey"`
	DocumentID uuid.UUID `gorm:"index;not null"`
	ActedBy    string    `gorm:"not null"`
	Action     string    `gorm:"not null"`

	// Set on file actions.
	ReceiptFilename *string
	ReceiptPayload  []byte

	// Set on report actions.
	Reason *string

	Note string
}

type ProtocolRecordList []ProtocolRecord

func (p ProtocolRecord) String() string {
	val, _ := json.Marshal(p)
	return string(val)
}
