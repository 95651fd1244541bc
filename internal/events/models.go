package events

// DocumentEvent notifies consumers (dashboards, other windows) that a
// document changed state. The store remains the source of truth; a missed
// event only delays convergence.
type DocumentEvent struct {
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
	Action     string `json:"action,omitempty"`
	ActedBy    string `json:"acted_by,omitempty"`
}

type PipelineEvent struct {
	Paused bool `json:"paused"`
}
