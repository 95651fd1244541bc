package service_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gof-esteira/oficios-api/internal/classifier"
	"github.com/gof-esteira/oficios-api/internal/config"
	"github.com/gof-esteira/oficios-api/internal/service"
	"github.com/gof-esteira/oficios-api/internal/store"
	"github.com/gof-esteira/oficios-api/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

type fakeClassifier struct {
	verdicts   map[string]*classifier.Verdict
	err        error
	onClassify func(input classifier.Input)
}

func (f *fakeClassifier) Classify(ctx context.Context, input classifier.Input) (*classifier.Verdict, error) {
	if f.onClassify != nil {
		f.onClassify(input)
	}
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.verdicts[input.Subject]; ok {
		return v, nil
	}
	return &classifier.Verdict{Valid: true, Action: model.ActionProtocolar, Confidence: 0.9}, nil
}

var _ = Describe("validation job", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		gate   *service.GateService
	)

	insertPending := func(subject string) uuid.UUID {
		id := uuid.New()
		_, err := s.Document().Create(context.TODO(), model.Document{
			ID:         id,
			MessageID:  fmt.Sprintf("<%s@tjsp.jus.br>", id),
			Subject:    subject,
			Sender:     "vara1@tjsp.jus.br",
			Body:       "Processo 0001234-56.2024.8.26.0100, prazo de 10 dias.",
			ReceivedAt: time.Now(),
			Status:     model.StatusPending,
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
		gate = service.NewGateService(s, nil)
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM documents;")
		gormdb.Exec("DELETE FROM pipeline_controls;")
	})

	It("does not process anything while the gate is paused", func() {
		insertPending("Ofício 1")
		insertPending("Ofício 2")
		Expect(gate.Pause(context.TODO())).To(Succeed())

		validation := service.NewValidationService(s, &fakeClassifier{}, gate)
		summary, err := validation.Run(context.TODO(), service.ValidationParams{})
		Expect(err).To(BeNil())
		Expect(summary.Halted).To(BeTrue())
		Expect(summary.Processed).To(Equal(0))

		documents, err := s.Document().List(context.TODO(),
			store.NewDocumentQueryFilter().ByUnannotated(), store.NewDocumentQueryOptions())
		Expect(err).To(BeNil())
		Expect(documents).To(HaveLen(2))
	})

	It("annotates documents according to the verdict", func() {
		okID := insertPending("Ofício completo")
		reviewID := insertPending("Ofício ambíguo")
		rejectID := insertPending("Propaganda")
		missingID := insertPending("Ofício sem prazo")

		fake := &fakeClassifier{verdicts: map[string]*classifier.Verdict{
			"Ofício completo": {Valid: true, Action: model.ActionProtocolar, Reason: "completo", Confidence: 0.95},
			"Ofício ambíguo":  {Valid: true, Action: model.ActionRevisar, Reason: "dados ambíguos", Confidence: 0.55},
			"Propaganda":      {Valid: false, Action: model.ActionRejeitar, Reason: "não é ofício", Confidence: 0.98},
			"Ofício sem prazo": {
				Valid: false, Action: model.ActionRevisar, Reason: "prazo ausente",
				Confidence: 0.8, MissingFields: []string{"prazo"},
			},
		}}

		validation := service.NewValidationService(s, fake, gate)
		summary, err := validation.Run(context.TODO(), service.ValidationParams{})
		Expect(err).To(BeNil())
		Expect(summary.Processed).To(Equal(4))
		Expect(summary.Skipped).To(Equal(0))
		Expect(summary.Halted).To(BeFalse())

		expectStatus := func(id uuid.UUID, status string) {
			document, err := s.Document().Get(context.TODO(), id)
			Expect(err).To(BeNil())
			Expect(document.Status).To(Equal(status))
			Expect(document.AnnotatedAt).ToNot(BeNil())
		}
		expectStatus(okID, model.StatusPending)
		expectStatus(reviewID, model.StatusRevisao)
		expectStatus(rejectID, model.StatusInvalid)
		expectStatus(missingID, model.StatusIncompleto)
	})

	It("halts at the checkpoint when paused mid run", func() {
		insertPending("Ofício a")
		insertPending("Ofício b")
		insertPending("Ofício c")

		processed := 0
		fake := &fakeClassifier{}
		fake.onClassify = func(input classifier.Input) {
			processed++
			if processed == 1 {
				Expect(gate.Pause(context.TODO())).To(Succeed())
			}
		}

		validation := service.NewValidationService(s, fake, gate)
		summary, err := validation.Run(context.TODO(), service.ValidationParams{})
		Expect(err).To(BeNil())
		Expect(summary.Processed).To(Equal(1))
		Expect(summary.Halted).To(BeTrue())
	})

	It("drops the verdict when a user decided the document concurrently", func() {
		id := insertPending("Ofício disputado")

		fake := &fakeClassifier{}
		fake.onClassify = func(input classifier.Input) {
			// the operator files the document while the verdict is in flight
			err := s.Document().UpdateStatus(context.TODO(), id,
				[]string{model.StatusPending}, model.StatusProtocolado)
			Expect(err).To(BeNil())
		}

		validation := service.NewValidationService(s, fake, gate)
		summary, err := validation.Run(context.TODO(), service.ValidationParams{})
		Expect(err).To(BeNil())
		Expect(summary.Processed).To(Equal(0))
		Expect(summary.Skipped).To(Equal(1))

		document, err := s.Document().Get(context.TODO(), id)
		Expect(err).To(BeNil())
		Expect(document.Status).To(Equal(model.StatusProtocolado))
		Expect(document.SuggestedAction).To(BeNil())
	})

	It("skips a document when the classifier fails", func() {
		insertPending("Ofício x")

		validation := service.NewValidationService(s, &fakeClassifier{err: errors.New("model timeout")}, gate)
		summary, err := validation.Run(context.TODO(), service.ValidationParams{})
		Expect(err).To(BeNil())
		Expect(summary.Processed).To(Equal(0))
		Expect(summary.Skipped).To(Equal(1))
	})

	It("only picks documents received on the requested date", func() {
		insertPending("Ofício de hoje")

		oldID := uuid.New()
		_, err := s.Document().Create(context.TODO(), model.Document{
			ID:         oldID,
			MessageID:  fmt.Sprintf("<%s@tjsp.jus.br>", oldID),
			Subject:    "Ofício antigo",
			ReceivedAt: time.Now().AddDate(0, 0, -5),
			Status:     model.StatusPending,
		})
		Expect(err).To(BeNil())

		today := time.Now()
		validation := service.NewValidationService(s, &fakeClassifier{}, gate)
		summary, err := validation.Run(context.TODO(), service.ValidationParams{Date: &today})
		Expect(err).To(BeNil())
		Expect(summary.Processed).To(Equal(1))

		document, err := s.Document().Get(context.TODO(), oldID)
		Expect(err).To(BeNil())
		Expect(document.AnnotatedAt).To(BeNil())
	})
})
