package service_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gof-esteira/oficios-api/internal/config"
	"github.com/gof-esteira/oficios-api/internal/mail"
	"github.com/gof-esteira/oficios-api/internal/service"
	"github.com/gof-esteira/oficios-api/internal/store"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

type fakeFetcher struct {
	entries []mail.Fetched
	err     error
	blockCh chan struct{}
}

func (f *fakeFetcher) Fetch(ctx context.Context, limit int, since *time.Time) ([]mail.Fetched, error) {
	if f.blockCh != nil {
		select {
		case <-f.blockCh:
		case <-ctx.Done():
		}
	}
	return f.entries, f.err
}

func newMessage(i int) *mail.Message {
	return &mail.Message{
		MessageID:  fmt.Sprintf("<msg-%d@tjsp.jus.br>", i),
		Subject:    fmt.Sprintf("Ofício %d/2024", i),
		Sender:     "vara1@tjsp.jus.br",
		Body:       "Segue ofício para providências.",
		ReceivedAt: time.Now(),
	}
}

var _ = Describe("capture job", Ordered, func() {
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
		gormdb.Exec("DELETE FROM documents;")
	})

	waitUntilDone := func(capture *service.CaptureService) *service.CaptureProgress {
		Eventually(func() bool {
			progress, err := capture.Progress()
			return err == nil && !progress.Running
		}).Should(BeTrue())
		progress, err := capture.Progress()
		Expect(err).To(BeNil())
		return progress
	}

	It("reports not running before the first start", func() {
		capture := service.NewCaptureService(s, &fakeFetcher{})
		_, err := capture.Progress()
		Expect(err).To(BeAssignableToTypeOf(&service.ErrCaptureNotRunning{}))

		// stopping with nothing in flight is a no-op
		capture.Stop()
	})

	It("stores every parsable message of the batch", func() {
		entries := []mail.Fetched{
			{Message: newMessage(1)},
			{Message: newMessage(2)},
			{Message: newMessage(3)},
		}
		capture := service.NewCaptureService(s, &fakeFetcher{entries: entries})
		Expect(capture.Start(service.CaptureParams{})).To(Succeed())

		progress := waitUntilDone(capture)
		Expect(progress.Total).To(Equal(3))
		Expect(progress.Processed).To(Equal(3))
		Expect(progress.Duplicates).To(Equal(0))
		Expect(progress.Skipped).To(Equal(0))
		Expect(progress.FinishedAt).ToNot(BeNil())

		count := 0
		Expect(gormdb.Raw("SELECT COUNT(*) from documents;").Scan(&count).Error).To(BeNil())
		Expect(count).To(Equal(3))
	})

	It("counts duplicates and unparsable entries without aborting", func() {
		entries := []mail.Fetched{
			{Message: newMessage(10)},
			{Message: newMessage(11)},
			{Message: newMessage(10)},
			{Err: errors.New("malformed relay entry")},
		}
		capture := service.NewCaptureService(s, &fakeFetcher{entries: entries})
		Expect(capture.Start(service.CaptureParams{})).To(Succeed())

		progress := waitUntilDone(capture)
		Expect(progress.Total).To(Equal(4))
		Expect(progress.Processed).To(Equal(2))
		Expect(progress.Duplicates).To(Equal(1))
		Expect(progress.Skipped).To(Equal(1))
	})

	It("skips messages already captured on a previous run", func() {
		entries := []mail.Fetched{{Message: newMessage(20)}}
		capture := service.NewCaptureService(s, &fakeFetcher{entries: entries})
		Expect(capture.Start(service.CaptureParams{})).To(Succeed())
		waitUntilDone(capture)

		Expect(capture.Start(service.CaptureParams{})).To(Succeed())
		progress := waitUntilDone(capture)
		Expect(progress.Processed).To(Equal(0))
		Expect(progress.Duplicates).To(Equal(1))
	})

	It("rejects a second start while a run is in flight", func() {
		blockCh := make(chan struct{})
		capture := service.NewCaptureService(s, &fakeFetcher{blockCh: blockCh})
		Expect(capture.Start(service.CaptureParams{})).To(Succeed())

		err := capture.Start(service.CaptureParams{})
		Expect(err).To(BeAssignableToTypeOf(&service.ErrCaptureAlreadyRunning{}))

		close(blockCh)
		waitUntilDone(capture)

		// finished runs accept a new start
		Expect(capture.Start(service.CaptureParams{})).To(Succeed())
		waitUntilDone(capture)
	})

	It("stops cooperatively on request", func() {
		blockCh := make(chan struct{})
		capture := service.NewCaptureService(s, &fakeFetcher{blockCh: blockCh})
		Expect(capture.Start(service.CaptureParams{})).To(Succeed())

		capture.Stop()
		progress := waitUntilDone(capture)
		Expect(progress.Processed).To(Equal(0))
	})

	It("records a fetch failure in the summary", func() {
		capture := service.NewCaptureService(s, &fakeFetcher{err: errors.New("relay unreachable")})
		Expect(capture.Start(service.CaptureParams{})).To(Succeed())

		progress := waitUntilDone(capture)
		Expect(progress.LastError).To(ContainSubstring("relay unreachable"))
	})
})
