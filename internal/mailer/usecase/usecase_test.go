package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/mailbus/internal/mailer/entity"
	"github.com/shandysiswandi/mailbus/internal/pkg/idempotency"
	"github.com/shandysiswandi/mailbus/internal/pkg/instrument"
	"github.com/shandysiswandi/mailbus/internal/pkg/mail"
	"github.com/shandysiswandi/mailbus/internal/pkg/validator"
)

type stubConfig struct {
	values map[string]string
}

func (s *stubConfig) Close() error                   { return nil }
func (s *stubConfig) GetSecond(string) time.Duration { return 0 }
func (s *stubConfig) GetMinute(string) time.Duration { return 0 }
func (s *stubConfig) GetHour(string) time.Duration   { return 0 }
func (s *stubConfig) GetDay(string) time.Duration    { return 0 }
func (s *stubConfig) GetInt(string) int              { return 0 }
func (s *stubConfig) GetInt32(string) int32          { return 0 }
func (s *stubConfig) GetInt64(string) int64          { return 0 }
func (s *stubConfig) GetUint(string) uint            { return 0 }
func (s *stubConfig) GetUint16(string) uint16        { return 0 }
func (s *stubConfig) GetUint32(string) uint32        { return 0 }
func (s *stubConfig) GetUint64(string) uint64        { return 0 }
func (s *stubConfig) GetFloat32(string) float32      { return 0 }
func (s *stubConfig) GetFloat64(string) float64      { return 0 }
func (s *stubConfig) GetBool(string) bool            { return false }
func (s *stubConfig) GetString(key string) string    { return s.values[key] }
func (s *stubConfig) GetBinary(string) []byte        { return nil }
func (s *stubConfig) GetArray(string) []string       { return nil }
func (s *stubConfig) GetMap(string) map[string]string {
	return nil
}

type stubPublisher struct {
	mu     sync.Mutex
	events []MailRequestedEvent
	err    error
}

func (s *stubPublisher) PublishMailRequested(_ context.Context, msg MailRequestedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, msg)
	return s.err
}

type stubDB struct {
	mu        sync.Mutex
	created   []entity.CreateDelivery
	updated   []entity.UpdateDelivery
	items     []entity.Delivery
	createErr error
	updateErr error
	listErr   error
}

func (s *stubDB) CreateDelivery(_ context.Context, data entity.CreateDelivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, data)
	return s.createErr
}

func (s *stubDB) UpdateDeliveryStatus(_ context.Context, data entity.UpdateDelivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updated = append(s.updated, data)
	return s.updateErr
}

func (s *stubDB) ListDeliveries(_ context.Context, _, _ int32) ([]entity.Delivery, error) {
	return s.items, s.listErr
}

type sentMail struct {
	transport *mail.Transport
	msg       mail.Message
}

type stubMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (s *stubMailer) Send(_ context.Context, transport *mail.Transport, msg mail.Message, _ *mail.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMail{transport: transport, msg: msg})
	return s.err
}

type stubIdempotency struct {
	mu         sync.Mutex
	state      idempotency.State
	acquireErr error
	acquired   []string
	completed  []string
	released   []string
}

func (s *stubIdempotency) Acquire(_ context.Context, key string, _ time.Duration) (idempotency.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acquired = append(s.acquired, key)
	return s.state, s.acquireErr
}

func (s *stubIdempotency) MarkCompleted(_ context.Context, key string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = append(s.completed, key)
	return nil
}

func (s *stubIdempotency) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = append(s.released, key)
	return nil
}

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

type fixedStringID struct{ value string }

func (f fixedStringID) Generate() string { return f.value }

type seqNumberID struct {
	mu   sync.Mutex
	next int64
}

func (s *seqNumberID) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

type fixture struct {
	uc     *Usecase
	db     *stubDB
	pub    *stubPublisher
	mailer *stubMailer
	idemp  *stubIdempotency
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	f := &fixture{
		db:     &stubDB{},
		pub:    &stubPublisher{},
		mailer: &stubMailer{},
		idemp:  &stubIdempotency{state: idempotency.StateNone},
		now:    time.Date(2025, time.March, 14, 9, 26, 53, 0, time.UTC),
	}
	f.uc = NewMailer(Dependency{
		RepoDB:        f.db,
		RepoMessaging: f.pub,
		RepoMail:      f.mailer,
		Idempotency:   f.idemp,
		Validator:     v10,
		Config: &stubConfig{values: map[string]string{
			"modules.mailer.default_sender":    "no-reply@mailbus.dev",
			"modules.mailer.default_smtp_host": "smtp.mailbus.dev",
		}},
		UID:        &seqNumberID{},
		UUID:       fixedStringID{value: "msg-1"},
		Clock:      fixedClock{now: f.now},
		Instrument: instrument.NewNoop(),
	})

	return f
}
