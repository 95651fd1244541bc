package service_test

import (
	"context"

	"github.com/gof-esteira/oficios-api/internal/config"
	"github.com/gof-esteira/oficios-api/internal/events"
	"github.com/gof-esteira/oficios-api/internal/service"
	"github.com/gof-esteira/oficios-api/internal/store"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("pipeline gate", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

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
		gormdb.Exec("DELETE FROM pipeline_controls;")
	})

	It("reports not paused when the control row is missing", func() {
		gate := service.NewGateService(s, nil)
		paused, err := gate.Paused(context.TODO())
		Expect(err).To(BeNil())
		Expect(paused).To(BeFalse())
	})

	It("pauses and resumes the pipeline", func() {
		gate := service.NewGateService(s, nil)

		Expect(gate.Pause(context.TODO())).To(Succeed())
		paused, err := gate.Paused(context.TODO())
		Expect(err).To(BeNil())
		Expect(paused).To(BeTrue())

		Expect(gate.Resume(context.TODO())).To(Succeed())
		paused, err = gate.Paused(context.TODO())
		Expect(err).To(BeNil())
		Expect(paused).To(BeFalse())
	})

	It("pausing twice is idempotent", func() {
		gate := service.NewGateService(s, nil)

		Expect(gate.Pause(context.TODO())).To(Succeed())
		Expect(gate.Pause(context.TODO())).To(Succeed())

		paused, err := gate.Paused(context.TODO())
		Expect(err).To(BeNil())
		Expect(paused).To(BeTrue())
	})

	It("publishes an event on each level change", func() {
		eventWriter := newTestWriter()
		gate := service.NewGateService(s, events.NewEventProducer(eventWriter))

		Expect(gate.Pause(context.TODO())).To(Succeed())
		Expect(gate.Resume(context.TODO())).To(Succeed())

		Eventually(func() int {
			return len(eventWriter.Messages)
		}).Should(Equal(2))
		Expect(eventWriter.Messages[0].Type()).To(Equal(events.PipelineMessageKind))
	})
})
