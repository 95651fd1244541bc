package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document statuses. A document enters the esteira as pending and leaves it
// through protocolado or completed.
const (
	StatusPending     = "pending"
	StatusRevisao     = "revisao"
	StatusInvalid     = "invalid"
	StatusIncompleto  = "incompleto"
	StatusProtocolado = "protocolado"
	StatusReportado   = "reportado"
	StatusCompleted   = "completed"
)

// Classifier suggested actions.
const (
	ActionProtocolar = "protocolar"
	ActionRevisar    = "revisar"
	ActionRejeitar   = "rejeitar"
)

const DocTypeOficio = "oficio"

type Document struct {
	gorm.Model
	ID         uuid.UUID `gorm:"primaryKey"`
	MessageID  string    `gorm:"uniqueIndex;not null"`
	Subject    string
	Sender     string
	Body       string
	DocType    string    `gorm:"index;default:oficio"`
	ReceivedAt time.Time `gorm:"index"`
	Status     string    `gorm:"index;default:pending"`

	// AI annotation, nil until the validation job classifies the document.
	SuggestedAction *string
	Reason          *string
	Confidence      *float64
	MissingFields   []byte `gorm:"type:jsonb"`
	AnnotatedAt     *time.Time

	Attachments     []Attachment     `gorm:"constraint:OnDelete:CASCADE;"`
	ProtocolRecords []ProtocolRecord `gorm:"constraint:OnDelete:CASCADE;"`
}

type DocumentList []Document

func (d Document) String() string {
	val, _ := json.Marshal(d)
	return string(val)
}

func NewDocumentFromID(id uuid.UUID) *Document {
	return &Document{ID: id}
}

// PreDecision reports whether the status still accepts classifier
// annotations. Terminal and reported statuses are owned by human actions.
func PreDecision(status string) bool {
	switch status {
	case StatusPending, StatusRevisao, StatusInvalid, StatusIncompleto:
		return true
	default:
		return false
	}
}

// Annotation is the classifier verdict persisted onto a document together
// with the status it maps to.
type Annotation struct {
	SuggestedAction string
	Reason          string
	Confidence      float64
	MissingFields   []string
}

func MakeJSONField(v any) []byte {
	data, _ := json.Marshal(v)
	return data
}

type Attachment struct {
	gorm.Model
	ID          uuid.UUID `gorm:"primaryKey"`
	DocumentID  uuid.UUID `gorm:"index;not null"`
	Filename    string
	ContentType string
	Payload     []byte
}
