package store

import (
	"time"

	"gorm.io/gorm"
)

type SortOrder int

const (
	Unsorted SortOrder = iota
	SortByReceivedTime
	SortByCreatedTime
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

type DocumentQueryFilter BaseQuerier

func NewDocumentQueryFilter() *DocumentQueryFilter {
	return &DocumentQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *DocumentQueryFilter) ByStatus(status string) *DocumentQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ?", status)
	})
	return qf
}

func (qf *DocumentQueryFilter) ByDocType(docType string) *DocumentQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("doc_type = ?", docType)
	})
	return qf
}

func (qf *DocumentQueryFilter) BySuggestedAction(action string) *DocumentQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("suggested_action = ?", action)
	})
	return qf
}

// ByReceivedDate keeps documents received on the given calendar day.
// Day bounds are computed in Go so the predicate works on both dialects.
func (qf *DocumentQueryFilter) ByReceivedDate(day time.Time) *DocumentQueryFilter {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("received_at >= ? AND received_at < ?", start, end)
	})
	return qf
}

func (qf *DocumentQueryFilter) ByUnannotated() *DocumentQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("annotated_at IS NULL")
	})
	return qf
}

func (qf *DocumentQueryFilter) ByStatusIn(statuses []string) *DocumentQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status IN ?", statuses)
	})
	return qf
}

func (qf *DocumentQueryFilter) ByStatusNotIn(statuses []string) *DocumentQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status NOT IN ?", statuses)
	})
	return qf
}

type DocumentQueryOptions BaseQuerier

func NewDocumentQueryOptions() *DocumentQueryOptions {
	return &DocumentQueryOptions{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (o *DocumentQueryOptions) WithLimit(limit int) *DocumentQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Limit(limit)
	})
	return o
}

func (o *DocumentQueryOptions) WithSortOrder(sort SortOrder) *DocumentQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		switch sort {
		case SortByReceivedTime:
			return tx.Order("received_at DESC")
		case SortByCreatedTime:
			return tx.Order("created_at DESC")
		default:
			return tx
		}
	})
	return o
}

type ProtocolQueryFilter BaseQuerier

func NewProtocolQueryFilter() *ProtocolQueryFilter {
	return &ProtocolQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *ProtocolQueryFilter) ByDocumentID(documentID string) *ProtocolQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("document_id = ?", documentID)
	})
	return qf
}

func (qf *ProtocolQueryFilter) ByAction(action string) *ProtocolQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("action = ?", action)
	})
	return qf
}
