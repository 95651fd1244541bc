package model

// PipelineControl is a key/value row holding process-wide pipeline switches.
// The gate level lives under KeyPauseValidation so it survives restarts.
type PipelineControl struct {
	Key   string `gorm:"primaryKey;column:key;type:VARCHAR;size:100"`
	Value string `gorm:"column:value;type:VARCHAR;size:100;not null"`
}

const (
	KeyPauseValidation = "pause_validation"

	ControlTrue  = "true"
	ControlFalse = "false"
)
