package service

import (
	"github.com/gof-esteira/oficios-api/internal/classifier"
	"github.com/gof-esteira/oficios-api/internal/store/model"
)

// The lifecycle rules below are the single authority on status changes.
// Stores enforce them a second time through guarded updates, so a decision
// recorded by a user is never overwritten by a slower writer.

// fileableStatuses are the statuses a document can be filed from.
var fileableStatuses = []string{
	model.StatusPending,
	model.StatusInvalid,
	model.StatusIncompleto,
	model.StatusRevisao,
}

// reportableStatuses additionally include protocolado and reportado: a filed
// document can still be flagged as divergent afterwards, and an already
// reported one can collect further divergence records.
var reportableStatuses = []string{
	model.StatusPending,
	model.StatusInvalid,
	model.StatusIncompleto,
	model.StatusRevisao,
	model.StatusProtocolado,
	model.StatusReportado,
}

// resolvableStatuses: divergence resolution is only reachable from reportado.
var resolvableStatuses = []string{
	model.StatusReportado,
}

func statusIn(status string, set []string) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}

// CanFile reports whether a file action is allowed from the given status.
func CanFile(status string) bool {
	return statusIn(status, fileableStatuses)
}

// CanReport reports whether a report action is allowed from the given status.
func CanReport(status string) bool {
	return statusIn(status, reportableStatuses)
}

// CanResolve reports whether a resolve action is allowed from the given status.
func CanResolve(status string) bool {
	return statusIn(status, resolvableStatuses)
}

// MapVerdict maps a classifier verdict onto the post-validation status:
//
//	missing fields        -> incompleto
//	action "rejeitar"     -> invalid
//	action "protocolar"   -> pending (annotated, ready to file)
//	action "revisar"      -> revisao
//	anything else         -> revisao (unknown verdicts go to a human)
func MapVerdict(verdict *classifier.Verdict) string {
	if len(verdict.MissingFields) > 0 {
		return model.StatusIncompleto
	}

	switch verdict.Action {
	case model.ActionRejeitar:
		return model.StatusInvalid
	case model.ActionProtocolar:
		return model.StatusPending
	case model.ActionRevisar:
		return model.StatusRevisao
	default:
		return model.StatusRevisao
	}
}
