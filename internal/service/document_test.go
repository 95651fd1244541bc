package service_test

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gof-esteira/oficios-api/internal/config"
	"github.com/gof-esteira/oficios-api/internal/events"
	"github.com/gof-esteira/oficios-api/internal/service"
	"github.com/gof-esteira/oficios-api/internal/store"
	"github.com/gof-esteira/oficios-api/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("document actions", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		srv    *service.DocumentService
	)

	insertWithStatus := func(status string) uuid.UUID {
		id := uuid.New()
		_, err := s.Document().Create(context.TODO(), model.Document{
			ID:         id,
			MessageID:  fmt.Sprintf("<%s@tjsp.jus.br>", id),
			Subject:    "Ofício 55/2024",
			ReceivedAt: time.Now(),
			Status:     status,
		})
		Expect(err).To(BeNil())
		return id
	}

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(Succeed())
		srv = service.NewDocumentService(s, events.NewEventProducer(newTestWriter()))
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM protocol_records;")
		gormdb.Exec("DELETE FROM documents;")
	})

	Context("file", func() {
		It("files a pending document and keeps the receipt", func() {
			id := insertWithStatus(model.StatusPending)

			record, err := srv.FileDocument(context.TODO(), service.FileForm{
				DocumentID:      id,
				ActedBy:         "maria",
				ReceiptFilename: "recibo.pdf",
				ReceiptPayload:  []byte("%PDF-recibo"),
				Note:            "protocolado no PJe",
			})
			Expect(err).To(BeNil())
			Expect(record.Action).To(Equal(model.ProtocolActionFile))
			Expect(*record.ReceiptFilename).To(Equal("recibo.pdf"))

			document, err := srv.GetDocument(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(document.Status).To(Equal(model.StatusProtocolado))
			Expect(document.ProtocolRecords).To(HaveLen(1))
		})

		It("files an invalid document, overriding the verdict", func() {
			id := insertWithStatus(model.StatusInvalid)

			_, err := srv.FileDocument(context.TODO(), service.FileForm{
				DocumentID:      id,
				ActedBy:         "maria",
				ReceiptFilename: "recibo.pdf",
				ReceiptPayload:  []byte("%PDF-"),
			})
			Expect(err).To(BeNil())

			document, err := srv.GetDocument(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(document.Status).To(Equal(model.StatusProtocolado))
		})

		It("requires a receipt", func() {
			id := insertWithStatus(model.StatusPending)

			_, err := srv.FileDocument(context.TODO(), service.FileForm{
				DocumentID: id,
				ActedBy:    "maria",
			})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrValidationRejected{}))
		})

		It("refuses to file twice", func() {
			id := insertWithStatus(model.StatusProtocolado)

			_, err := srv.FileDocument(context.TODO(), service.FileForm{
				DocumentID:      id,
				ActedBy:         "maria",
				ReceiptFilename: "recibo.pdf",
				ReceiptPayload:  []byte("%PDF-"),
			})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidTransition{}))
		})

		It("returns not found for an unknown document", func() {
			_, err := srv.FileDocument(context.TODO(), service.FileForm{
				DocumentID:      uuid.New(),
				ActedBy:         "maria",
				ReceiptFilename: "recibo.pdf",
				ReceiptPayload:  []byte("%PDF-"),
			})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})

	Context("report", func() {
		It("reports a protocolado document as divergent", func() {
			id := insertWithStatus(model.StatusProtocolado)

			record, err := srv.ReportDocument(context.TODO(), service.ReportForm{
				DocumentID: id,
				ActedBy:    "joao",
				Reason:     "número do processo divergente",
			})
			Expect(err).To(BeNil())
			Expect(record.Action).To(Equal(model.ProtocolActionReport))
			Expect(*record.Reason).To(Equal("número do processo divergente"))

			document, err := srv.GetDocument(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(document.Status).To(Equal(model.StatusReportado))
		})

		It("requires a reason", func() {
			id := insertWithStatus(model.StatusPending)

			_, err := srv.ReportDocument(context.TODO(), service.ReportForm{
				DocumentID: id,
				ActedBy:    "joao",
			})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrValidationRejected{}))
		})

		It("accepts a second report and keeps both records", func() {
			id := insertWithStatus(model.StatusPending)

			_, err := srv.ReportDocument(context.TODO(), service.ReportForm{
				DocumentID: id,
				ActedBy:    "joao",
				Reason:     "prazo expirado",
			})
			Expect(err).To(BeNil())

			_, err = srv.ReportDocument(context.TODO(), service.ReportForm{
				DocumentID: id,
				ActedBy:    "ana",
				Reason:     "anexo ilegível",
			})
			Expect(err).To(BeNil())

			document, err := srv.GetDocument(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(document.Status).To(Equal(model.StatusReportado))
			Expect(document.ProtocolRecords).To(HaveLen(2))
		})
	})

	Context("resolve", func() {
		It("completes a reported document", func() {
			id := insertWithStatus(model.StatusReportado)

			record, err := srv.ResolveDocument(context.TODO(), service.ResolveForm{
				DocumentID: id,
				ActedBy:    "joao",
				Note:       "corrigido pela vara",
			})
			Expect(err).To(BeNil())
			Expect(record.Action).To(Equal(model.ProtocolActionResolve))

			document, err := srv.GetDocument(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(document.Status).To(Equal(model.StatusCompleted))
		})

		It("only resolves reported documents", func() {
			id := insertWithStatus(model.StatusPending)

			_, err := srv.ResolveDocument(context.TODO(), service.ResolveForm{
				DocumentID: id,
				ActedBy:    "joao",
			})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidTransition{}))
		})
	})

	Context("queries", func() {
		It("counts documents still waiting for an outcome", func() {
			insertWithStatus(model.StatusPending)
			insertWithStatus(model.StatusRevisao)
			insertWithStatus(model.StatusIncompleto)
			insertWithStatus(model.StatusProtocolado)
			insertWithStatus(model.StatusCompleted)

			count, err := srv.PendingCount(context.TODO())
			Expect(err).To(BeNil())
			Expect(count).To(Equal(int64(3)))
		})

		It("lists documents by status", func() {
			insertWithStatus(model.StatusPending)
			insertWithStatus(model.StatusProtocolado)

			documents, err := srv.ListDocuments(context.TODO(),
				service.NewDocumentFilter(service.WithStatus(model.StatusProtocolado)))
			Expect(err).To(BeNil())
			Expect(documents).To(HaveLen(1))
		})

		It("returns not found for an unknown attachment", func() {
			_, err := srv.GetAttachment(context.TODO(), uuid.New())
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})
})
