package mappers

import (
	"encoding/json"

	api "github.com/gof-esteira/oficios-api/api/v1"
	"github.com/gof-esteira/oficios-api/internal/store/model"
)

func DocumentToApi(d model.Document) api.DocumentReply {
	reply := api.DocumentReply{
		ID:              d.ID.String(),
		MessageID:       d.MessageID,
		Subject:         d.Subject,
		Sender:          d.Sender,
		Body:            d.Body,
		DocType:         d.DocType,
		ReceivedAt:      d.ReceivedAt,
		Status:          d.Status,
		SuggestedAction: d.SuggestedAction,
		Reason:          d.Reason,
		Confidence:      d.Confidence,
		AnnotatedAt:     d.AnnotatedAt,
		Attachments:     make([]api.AttachmentMeta, 0, len(d.Attachments)),
	}

	if len(d.MissingFields) > 0 {
		_ = json.Unmarshal(d.MissingFields, &reply.MissingFields)
	}

	for _, a := range d.Attachments {
		reply.Attachments = append(reply.Attachments, api.AttachmentMeta{
			ID:          a.ID.String(),
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Size:        len(a.Payload),
		})
	}

	for _, p := range d.ProtocolRecords {
		reply.ProtocolRecords = append(reply.ProtocolRecords, ProtocolRecordToApi(p))
	}

	return reply
}

func DocumentListToApi(documents model.DocumentList) api.DocumentListReply {
	reply := api.DocumentListReply{
		Documents: make([]api.DocumentReply, 0, len(documents)),
		Total:     len(documents),
	}
	for _, d := range documents {
		reply.Documents = append(reply.Documents, DocumentToApi(d))
	}
	return reply
}

func ProtocolRecordToApi(p model.ProtocolRecord) api.ProtocolRecordReply {
	return api.ProtocolRecordReply{
		ID:              p.ID.String(),
		Action:          p.Action,
		ActedBy:         p.ActedBy,
		Reason:          p.Reason,
		ReceiptFilename: p.ReceiptFilename,
		Note:            p.Note,
		CreatedAt:       p.CreatedAt,
	}
}
