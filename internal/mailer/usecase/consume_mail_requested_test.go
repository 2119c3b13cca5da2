package usecase

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shandysiswandi/mailbus/internal/mailer/entity"
	"github.com/shandysiswandi/mailbus/internal/pkg/idempotency"
	"github.com/shandysiswandi/mailbus/internal/pkg/mail"
)

func TestConsumeMailRequestedSendsMessage(t *testing.T) {
	// Arrange
	f := newFixture(t)

	// Act
	err := f.uc.ConsumeMailRequested(t.Context(), ConsumeMailRequestedInput{
		MessageID: "msg-1",
		Recipient: "a@x.com",
		Body:      "hi",
		Subject:   "s",
		Sender:    "b@x.com",
		SMTPHost:  "h",
		SMTPPort:  "25",
	})

	// Assert
	if err != nil {
		t.Fatalf("consume mail requested: %v", err)
	}
	if len(f.mailer.sent) != 1 {
		t.Fatalf("expected 1 send, got %d", len(f.mailer.sent))
	}
	got := f.mailer.sent[0]
	if got.transport.Addr() != "h:25" {
		t.Fatalf("expected transport addr h:25, got %q", got.transport.Addr())
	}
	if got.msg.From != "b@x.com" {
		t.Fatalf("expected from b@x.com, got %q", got.msg.From)
	}
	if len(got.msg.To) != 1 || got.msg.To[0] != "a@x.com" {
		t.Fatalf("expected to [a@x.com], got %v", got.msg.To)
	}
	if got.msg.Subject != "s" {
		t.Fatalf("expected subject s, got %q", got.msg.Subject)
	}
	if got.msg.HTMLBody != "hi" {
		t.Fatalf("expected body hi, got %q", got.msg.HTMLBody)
	}
	if len(f.idemp.completed) != 1 || f.idemp.completed[0] != "msg-1" {
		t.Fatalf("expected guard completed for msg-1, got %v", f.idemp.completed)
	}
}

func TestConsumeMailRequestedAppliesDefaults(t *testing.T) {
	// Arrange
	f := newFixture(t)

	// Act
	err := f.uc.ConsumeMailRequested(t.Context(), ConsumeMailRequestedInput{
		MessageID: "msg-2",
		Recipient: "a@x.com",
		Body:      "hi",
	})

	// Assert
	if err != nil {
		t.Fatalf("consume mail requested: %v", err)
	}
	got := f.mailer.sent[0]
	if got.transport.Addr() != "smtp.mailbus.dev:587" {
		t.Fatalf("expected default transport addr, got %q", got.transport.Addr())
	}
	if got.msg.From != "no-reply@mailbus.dev" {
		t.Fatalf("expected default sender, got %q", got.msg.From)
	}
	if got.msg.Subject != entity.DefaultSubject {
		t.Fatalf("expected default subject, got %q", got.msg.Subject)
	}
}

func TestConsumeMailRequestedStampsDeliveryTimes(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.mailer.err = &mail.SendError{Addr: "h:25", Op: "dial", Err: errors.New("refused")}

	// Act
	_ = f.uc.ConsumeMailRequested(t.Context(), ConsumeMailRequestedInput{
		MessageID: "msg-t",
		Recipient: "a@x.com",
		Body:      "hi",
		SMTPHost:  "h",
		SMTPPort:  "25",
	})

	// Assert
	if len(f.db.created) != 1 {
		t.Fatalf("expected 1 created row, got %d", len(f.db.created))
	}
	if !f.db.created[0].CreatedAt.Equal(f.now) || !f.db.created[0].UpdatedAt.Equal(f.now) {
		t.Fatalf("created row must carry clock time %v, got %v / %v",
			f.now, f.db.created[0].CreatedAt, f.db.created[0].UpdatedAt)
	}
	if len(f.db.updated) != 1 {
		t.Fatalf("expected 1 updated row, got %d", len(f.db.updated))
	}
	if !f.db.updated[0].UpdatedAt.Equal(f.now) {
		t.Fatalf("updated row must carry clock time %v, got %v", f.now, f.db.updated[0].UpdatedAt)
	}
}

func TestConsumeMailRequestedInvalidTransport(t *testing.T) {
	// Arrange
	f := newFixture(t)

	// Act
	err := f.uc.ConsumeMailRequested(t.Context(), ConsumeMailRequestedInput{
		MessageID: "msg-3",
		Recipient: "a@x.com",
		Body:      "hi",
		SMTPHost:  "bad host",
	})

	// Assert
	if !errors.Is(err, mail.ErrInvalidDSN) {
		t.Fatalf("expected invalid dsn error, got %v", err)
	}
	if len(f.mailer.sent) != 0 {
		t.Fatalf("invalid transport must not send, got %d sends", len(f.mailer.sent))
	}
	if len(f.idemp.released) != 1 {
		t.Fatalf("expected guard release on failure, got %v", f.idemp.released)
	}
}

func TestConsumeMailRequestedSendFailure(t *testing.T) {
	// Arrange
	f := newFixture(t)
	sendErr := &mail.SendError{Addr: "h:25", Op: "dial", Err: errors.New("refused")}
	f.mailer.err = sendErr

	// Act
	err := f.uc.ConsumeMailRequested(t.Context(), ConsumeMailRequestedInput{
		MessageID: "msg-4",
		Recipient: "a@x.com",
		Body:      "hi",
		SMTPHost:  "h",
		SMTPPort:  "25",
	})

	// Assert
	var gotSendErr *mail.SendError
	if !errors.As(err, &gotSendErr) || gotSendErr != sendErr {
		t.Fatalf("send failure must be returned unchanged, got %v", err)
	}
	if len(f.idemp.released) != 1 {
		t.Fatalf("expected guard release on send failure, got %v", f.idemp.released)
	}
	if len(f.idemp.completed) != 0 {
		t.Fatalf("failed send must not complete guard, got %v", f.idemp.completed)
	}

	last := f.db.updated[len(f.db.updated)-1]
	if last.Status != entity.DeliveryStatusFailed {
		t.Fatalf("expected failed delivery status, got %q", last.Status)
	}
}

func TestConsumeMailRequestedDuplicateSkipped(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.idemp.state = idempotency.StateCompleted

	// Act
	err := f.uc.ConsumeMailRequested(t.Context(), ConsumeMailRequestedInput{
		MessageID: "msg-5",
		Recipient: "a@x.com",
		Body:      "hi",
	})

	// Assert
	if err != nil {
		t.Fatalf("duplicate must be acked, got %v", err)
	}
	if len(f.mailer.sent) != 0 {
		t.Fatalf("duplicate must not send, got %d sends", len(f.mailer.sent))
	}
}

func TestConsumeMailRequestedTrackerFailureDegradesToProcessing(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.idemp.acquireErr = errors.New("redis down")

	// Act
	err := f.uc.ConsumeMailRequested(t.Context(), ConsumeMailRequestedInput{
		MessageID: "msg-6",
		Recipient: "a@x.com",
		Body:      "hi",
	})

	// Assert
	if err != nil {
		t.Fatalf("tracker failure must not block delivery, got %v", err)
	}
	if len(f.mailer.sent) != 1 {
		t.Fatalf("expected delivery despite tracker failure, got %d sends", len(f.mailer.sent))
	}
}

func TestConsumeMailRequestedDeliveryLogIsBestEffort(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.db.createErr = errors.New("db down")

	// Act
	err := f.uc.ConsumeMailRequested(t.Context(), ConsumeMailRequestedInput{
		MessageID: "msg-7",
		Recipient: "a@x.com",
		Body:      "hi",
	})

	// Assert
	if err != nil {
		t.Fatalf("audit log failure must not block delivery, got %v", err)
	}
	if len(f.mailer.sent) != 1 {
		t.Fatalf("expected delivery despite audit failure, got %d sends", len(f.mailer.sent))
	}
	if len(f.db.updated) != 0 {
		t.Fatalf("missing audit row must skip status update, got %v", f.db.updated)
	}
}

func TestConsumeMailRequestedConcurrentTransportsAreIsolated(t *testing.T) {
	// Arrange
	f := newFixture(t)
	const workers = 4

	// Act
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = f.uc.ConsumeMailRequested(t.Context(), ConsumeMailRequestedInput{
				MessageID: fmt.Sprintf("msg-c-%d", i),
				Recipient: fmt.Sprintf("rcpt-%d@x.com", i),
				Body:      "hi",
				SMTPHost:  fmt.Sprintf("host-%d", i),
				SMTPPort:  "25",
			})
		}()
	}
	wg.Wait()

	// Assert
	if len(f.mailer.sent) != workers {
		t.Fatalf("expected %d sends, got %d", workers, len(f.mailer.sent))
	}
	seen := map[string]string{}
	for _, sent := range f.mailer.sent {
		seen[sent.transport.Addr()] = sent.msg.To[0]
	}
	for i := range workers {
		addr := fmt.Sprintf("host-%d:25", i)
		want := fmt.Sprintf("rcpt-%d@x.com", i)
		if seen[addr] != want {
			t.Fatalf("transport %s delivered to %q, want %q", addr, seen[addr], want)
		}
	}
}
