package classifier

import "context"

// Input is the material handed to the AI validator for one document.
type Input struct {
	Subject         string            `json:"subject"`
	Body            string            `json:"body"`
	AttachmentNames []string          `json:"attachment_names"`
	ExtractedFields map[string]string `json:"extracted_fields"`
}

// Verdict is the validator's answer: a suggested action, the reasoning
// behind it and a self-reported coherence score.
type Verdict struct {
	Valid         bool     `json:"valido"`
	Action        string   `json:"acao_sugerida"`
	Reason        string   `json:"motivo"`
	Confidence    float64  `json:"coerencia"`
	MissingFields []string `json:"campos_faltantes"`
}

// Classifier validates the formality of a document. Failures are scoped to
// the single document; batch callers skip and continue.
type Classifier interface {
	Classify(ctx context.Context, input Input) (*Verdict, error)
}
