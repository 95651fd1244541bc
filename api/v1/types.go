package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// Error is the envelope for every non-2xx JSON response.
type Error struct {
	HTTPStatusCode int    `json:"-"`
	Message        string `json:"message"`
}

func (e *Error) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

type LoginForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (f *LoginForm) Bind(r *http.Request) error {
	if f.Username == "" || f.Password == "" {
		return errors.New("username and password are required")
	}
	return nil
}

type SessionReply struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func (s SessionReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type UserReply struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func (u UserReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type CaptureStartForm struct {
	Limit int    `json:"limit"`
	Since string `json:"since" validate:"report_date"`
}

func (f *CaptureStartForm) Bind(r *http.Request) error {
	if f.Limit < 0 {
		return errors.New("limit must not be negative")
	}
	return nil
}

type CaptureStartedReply struct {
	Status string `json:"status"`
}

func (c CaptureStartedReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type CaptureProgressReply struct {
	Running    bool       `json:"running"`
	Total      int        `json:"total"`
	Processed  int        `json:"processed"`
	Duplicates int        `json:"duplicates"`
	Skipped    int        `json:"skipped"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	LastError  string     `json:"last_error,omitempty"`
}

func (c CaptureProgressReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type ValidationRunForm struct {
	Limit int    `json:"limit"`
	Date  string `json:"date" validate:"report_date"`
}

func (f *ValidationRunForm) Bind(r *http.Request) error {
	if f.Limit < 0 {
		return errors.New("limit must not be negative")
	}
	return nil
}

type ValidationSummaryReply struct {
	Processed int  `json:"processed"`
	Skipped   int  `json:"skipped"`
	Halted    bool `json:"halted"`
}

func (v ValidationSummaryReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type PipelineStatusReply struct {
	Paused bool `json:"paused"`
}

func (p PipelineStatusReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type PendingCountReply struct {
	Pending int64 `json:"pending"`
}

func (p PendingCountReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type DocumentQuery struct {
	Date            string `validate:"report_date"`
	Status          string `validate:"doc_status"`
	DocType         string
	SuggestedAction string `validate:"doc_action"`
}

type AttachmentMeta struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

type ProtocolRecordReply struct {
	ID              string    `json:"id"`
	Action          string    `json:"action"`
	ActedBy         string    `json:"acted_by"`
	Reason          *string   `json:"reason,omitempty"`
	ReceiptFilename *string   `json:"receipt_filename,omitempty"`
	Note            string    `json:"note,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (p ProtocolRecordReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type DocumentReply struct {
	ID              string                `json:"id"`
	MessageID       string                `json:"message_id"`
	Subject         string                `json:"subject"`
	Sender          string                `json:"sender"`
	Body            string                `json:"body,omitempty"`
	DocType         string                `json:"doc_type"`
	ReceivedAt      time.Time             `json:"received_at"`
	Status          string                `json:"status"`
	SuggestedAction *string               `json:"suggested_action,omitempty"`
	Reason          *string               `json:"reason,omitempty"`
	Confidence      *float64              `json:"confidence,omitempty"`
	MissingFields   []string              `json:"missing_fields,omitempty"`
	AnnotatedAt     *time.Time            `json:"annotated_at,omitempty"`
	Attachments     []AttachmentMeta      `json:"attachments"`
	ProtocolRecords []ProtocolRecordReply `json:"protocol_records,omitempty"`
}

func (d DocumentReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type DocumentListReply struct {
	Documents []DocumentReply `json:"documents"`
	Total     int             `json:"total"`
}

func (d DocumentListReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type ReportForm struct {
	Reason string `json:"reason"`
	Note   string `json:"note"`
}

func (f *ReportForm) Bind(r *http.Request) error {
	if f.Reason == "" {
		return errors.New("reason is required")
	}
	return nil
}

type ResolveForm struct {
	Note string `json:"note"`
}

func (f *ResolveForm) Bind(r *http.Request) error {
	return nil
}
