package store_test

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gof-esteira/oficios-api/internal/config"
	"github.com/gof-esteira/oficios-api/internal/store"
	"github.com/gof-esteira/oficios-api/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

const (
	insertDocumentStm = "INSERT INTO documents (id, message_id, status, doc_type, received_at) VALUES ('%s', '%s', '%s', 'oficio', '%s');"
)

var _ = Describe("document store", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

	insertDocument := func(id uuid.UUID, messageID, status string, receivedAt time.Time) {
		tx := gormdb.Exec(fmt.Sprintf(insertDocumentStm, id, messageID, status, receivedAt.Format("2006-01-02 15:04:05")))
		Expect(tx.Error).To(BeNil())
	}

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(Succeed())
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM attachments;")
		gormdb.Exec("DELETE FROM documents;")
	})

	Context("create", func() {
		It("stores a document with its attachments", func() {
			id := uuid.New()
			document, err := s.Document().Create(context.TODO(), model.Document{
				ID:         id,
				MessageID:  "<oficio-1@tjsp.jus.br>",
				Subject:    "Ofício 123/2024",
				Sender:     "vara1@tjsp.jus.br",
				ReceivedAt: time.Now(),
				Status:     model.StatusPending,
				Attachments: []model.Attachment{
					{ID: uuid.New(), DocumentID: id, Filename: "oficio.pdf", ContentType: "application/pdf", Payload: []byte("%PDF-")},
				},
			})
			Expect(err).To(BeNil())
			Expect(document).ToNot(BeNil())

			stored, err := s.Document().Get(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(stored.Attachments).To(HaveLen(1))
			Expect(stored.Attachments[0].Filename).To(Equal("oficio.pdf"))
		})

		It("rejects a duplicated message id", func() {
			id := uuid.New()
			insertDocument(id, "<dup@tjsp.jus.br>", model.StatusPending, time.Now())

			_, err := s.Document().Create(context.TODO(), model.Document{
				ID:        uuid.New(),
				MessageID: "<dup@tjsp.jus.br>",
				Status:    model.StatusPending,
			})
			Expect(err).To(MatchError(store.ErrDuplicateKey))
		})

		It("reports existence by message id", func() {
			insertDocument(uuid.New(), "<exists@tjsp.jus.br>", model.StatusPending, time.Now())

			exists, err := s.Document().ExistsByMessageID(context.TODO(), "<exists@tjsp.jus.br>")
			Expect(err).To(BeNil())
			Expect(exists).To(BeTrue())

			exists, err = s.Document().ExistsByMessageID(context.TODO(), "<missing@tjsp.jus.br>")
			Expect(err).To(BeNil())
			Expect(exists).To(BeFalse())
		})
	})

	Context("list", func() {
		It("filters by status", func() {
			insertDocument(uuid.New(), "<a@x>", model.StatusPending, time.Now())
			insertDocument(uuid.New(), "<b@x>", model.StatusProtocolado, time.Now())

			documents, err := s.Document().List(context.TODO(),
				store.NewDocumentQueryFilter().ByStatus(model.StatusPending),
				store.NewDocumentQueryOptions())
			Expect(err).To(BeNil())
			Expect(documents).To(HaveLen(1))
			Expect(documents[0].Status).To(Equal(model.StatusPending))
		})

		It("filters by received date", func() {
			today := time.Now()
			insertDocument(uuid.New(), "<today@x>", model.StatusPending, today)
			insertDocument(uuid.New(), "<old@x>", model.StatusPending, today.AddDate(0, 0, -3))

			documents, err := s.Document().List(context.TODO(),
				store.NewDocumentQueryFilter().ByReceivedDate(today),
				store.NewDocumentQueryOptions())
			Expect(err).To(BeNil())
			Expect(documents).To(HaveLen(1))
			Expect(documents[0].MessageID).To(Equal("<today@x>"))
		})

		It("filters out annotated documents", func() {
			annotated := uuid.New()
			insertDocument(annotated, "<annotated@x>", model.StatusPending, time.Now())
			insertDocument(uuid.New(), "<fresh@x>", model.StatusPending, time.Now())

			err := s.Document().Annotate(context.TODO(), annotated, model.Annotation{
				SuggestedAction: model.ActionProtocolar,
				Reason:          "documento completo",
				Confidence:      0.91,
			}, model.StatusPending)
			Expect(err).To(BeNil())

			documents, err := s.Document().List(context.TODO(),
				store.NewDocumentQueryFilter().ByUnannotated(),
				store.NewDocumentQueryOptions())
			Expect(err).To(BeNil())
			Expect(documents).To(HaveLen(1))
			Expect(documents[0].MessageID).To(Equal("<fresh@x>"))
		})

		It("sorts by received time and honors the limit", func() {
			now := time.Now()
			insertDocument(uuid.New(), "<oldest@x>", model.StatusPending, now.Add(-2*time.Hour))
			insertDocument(uuid.New(), "<newest@x>", model.StatusPending, now)
			insertDocument(uuid.New(), "<middle@x>", model.StatusPending, now.Add(-time.Hour))

			documents, err := s.Document().List(context.TODO(),
				store.NewDocumentQueryFilter(),
				store.NewDocumentQueryOptions().WithSortOrder(store.SortByReceivedTime).WithLimit(2))
			Expect(err).To(BeNil())
			Expect(documents).To(HaveLen(2))
			Expect(documents[0].MessageID).To(Equal("<newest@x>"))
			Expect(documents[1].MessageID).To(Equal("<middle@x>"))
		})
	})

	Context("count", func() {
		It("counts documents still in the esteira", func() {
			insertDocument(uuid.New(), "<p1@x>", model.StatusPending, time.Now())
			insertDocument(uuid.New(), "<p2@x>", model.StatusRevisao, time.Now())
			insertDocument(uuid.New(), "<p3@x>", model.StatusProtocolado, time.Now())
			insertDocument(uuid.New(), "<p4@x>", model.StatusCompleted, time.Now())

			count, err := s.Document().Count(context.TODO(),
				store.NewDocumentQueryFilter().ByStatusNotIn([]string{model.StatusProtocolado, model.StatusCompleted}))
			Expect(err).To(BeNil())
			Expect(count).To(Equal(int64(2)))
		})

		It("counts grouped by status", func() {
			insertDocument(uuid.New(), "<g1@x>", model.StatusPending, time.Now())
			insertDocument(uuid.New(), "<g2@x>", model.StatusPending, time.Now())
			insertDocument(uuid.New(), "<g3@x>", model.StatusInvalid, time.Now())

			counts, err := s.Document().CountByStatus(context.TODO())
			Expect(err).To(BeNil())
			Expect(counts[model.StatusPending]).To(Equal(2))
			Expect(counts[model.StatusInvalid]).To(Equal(1))
		})
	})

	Context("annotate", func() {
		It("persists the verdict on a pending document", func() {
			id := uuid.New()
			insertDocument(id, "<verdict@x>", model.StatusPending, time.Now())

			err := s.Document().Annotate(context.TODO(), id, model.Annotation{
				SuggestedAction: model.ActionRevisar,
				Reason:          "prazo ilegível",
				Confidence:      0.74,
				MissingFields:   []string{"prazo"},
			}, model.StatusRevisao)
			Expect(err).To(BeNil())

			document, err := s.Document().Get(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(document.Status).To(Equal(model.StatusRevisao))
			Expect(*document.SuggestedAction).To(Equal(model.ActionRevisar))
			Expect(document.AnnotatedAt).ToNot(BeNil())
		})

		It("refuses to overwrite a decided document", func() {
			id := uuid.New()
			insertDocument(id, "<decided@x>", model.StatusProtocolado, time.Now())

			err := s.Document().Annotate(context.TODO(), id, model.Annotation{
				SuggestedAction: model.ActionProtocolar,
			}, model.StatusPending)
			Expect(err).To(MatchError(store.ErrStaleStatus))

			document, err := s.Document().Get(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(document.Status).To(Equal(model.StatusProtocolado))
			Expect(document.SuggestedAction).To(BeNil())
		})
	})

	Context("update status", func() {
		It("moves the status when the guard matches", func() {
			id := uuid.New()
			insertDocument(id, "<guard@x>", model.StatusPending, time.Now())

			err := s.Document().UpdateStatus(context.TODO(), id,
				[]string{model.StatusPending, model.StatusRevisao}, model.StatusProtocolado)
			Expect(err).To(BeNil())

			document, err := s.Document().Get(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(document.Status).To(Equal(model.StatusProtocolado))
		})

		It("fails when the status left the allowed set", func() {
			id := uuid.New()
			insertDocument(id, "<stale@x>", model.StatusReportado, time.Now())

			err := s.Document().UpdateStatus(context.TODO(), id,
				[]string{model.StatusPending}, model.StatusProtocolado)
			Expect(err).To(MatchError(store.ErrStaleStatus))
		})
	})
})
