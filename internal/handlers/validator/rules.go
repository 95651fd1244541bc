package validator

import "github.com/go-playground/validator/v10"

func registerFn(tag string, fn func(fl validator.FieldLevel) bool) func(v *validator.Validate) {
	return func(v *validator.Validate) {
		_ = v.RegisterValidation(tag, fn)
	}
}

func NewDocumentQueryValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("doc_status", statusValidator),
		},
		{
			Rule: registerFn("doc_action", actionValidator),
		},
		{
			Rule: registerFn("report_date", dateValidator),
		},
	}
}

func NewCaptureValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("report_date", dateValidator),
		},
	}
}
