package validator

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gof-esteira/oficios-api/internal/store/model"
)

var knownStatuses = map[string]struct{}{
	model.StatusPending:     {},
	model.StatusRevisao:     {},
	model.StatusInvalid:     {},
	model.StatusIncompleto:  {},
	model.StatusProtocolado: {},
	model.StatusReportado:   {},
	model.StatusCompleted:   {},
}

var knownActions = map[string]struct{}{
	model.ActionProtocolar: {},
	model.ActionRevisar:    {},
	model.ActionRejeitar:   {},
}

func statusValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	if val == "" {
		return true
	}
	_, found := knownStatuses[val]
	return found
}

func actionValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	if val == "" {
		return true
	}
	_, found := knownActions[val]
	return found
}

// dateValidator accepts the console's YYYY-MM-DD query format.
func dateValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	if val == "" {
		return true
	}
	_, err := time.Parse(time.DateOnly, val)
	return err == nil
}
