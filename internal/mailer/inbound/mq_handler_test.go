package inbound

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/mailbus/internal/mailer/entity"
	"github.com/shandysiswandi/mailbus/internal/mailer/usecase"
	"github.com/shandysiswandi/mailbus/internal/pkg/instrument"
	"github.com/shandysiswandi/mailbus/internal/pkg/messaging"
)

type stubUsecase struct {
	consumed []usecase.ConsumeMailRequestedInput
	err      error
}

func (s *stubUsecase) ConsumeMailRequested(_ context.Context, in usecase.ConsumeMailRequestedInput) error {
	s.consumed = append(s.consumed, in)
	return s.err
}

func (s *stubUsecase) DispatchMail(context.Context, usecase.DispatchMailInput) error {
	return nil
}

func (s *stubUsecase) ListDeliveries(context.Context, usecase.ListDeliveriesInput) ([]entity.Delivery, error) {
	return nil, nil
}

type stubStringID struct{ value string }

func (s stubStringID) Generate() string { return s.value }

type stubMessage struct {
	body    []byte
	headers []messaging.Header
}

func (m stubMessage) Body() []byte                  { return m.body }
func (m stubMessage) Key() []byte                   { return nil }
func (m stubMessage) Headers() []messaging.Header   { return m.headers }
func (m stubMessage) Attributes() map[string]string { return nil }
func (m stubMessage) ID() string                    { return "" }
func (m stubMessage) Topic() string                 { return "" }
func (m stubMessage) Subject() string               { return "" }
func (m stubMessage) Timestamp() time.Time          { return time.Time{} }
func (m stubMessage) Ack(context.Context) error     { return nil }

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	old := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(buf, nil)))
	t.Cleanup(func() { slog.SetDefault(old) })
	return buf
}

func TestMailRequestedDoesNotLogHostCredentials(t *testing.T) {
	// Arrange
	logs := captureLogs(t)
	uc := &stubUsecase{}
	h := &MQHandler{uc: uc, uuid: stubStringID{value: "cid-1"}, ins: instrument.NewNoop()}
	body := []byte(`{"message_id":"m1","recipient":"a@x.com","body":"hi","subject":"s","sender":"b@x.com","smtp_host":"user:hunter2@mail.example.com","smtp_port":"587"}`)

	// Act
	err := h.MailRequested(t.Context(), stubMessage{body: body})

	// Assert
	if err != nil {
		t.Fatalf("mail requested: %v", err)
	}
	if len(uc.consumed) != 1 || uc.consumed[0].SMTPHost != "user:hunter2@mail.example.com" {
		t.Fatalf("usecase must receive the raw host, got %+v", uc.consumed)
	}
	if strings.Contains(logs.String(), "hunter2") {
		t.Fatalf("log output leaked host credentials: %s", logs.String())
	}
	if !strings.Contains(logs.String(), "[redacted]") {
		t.Fatalf("log output missing redaction marker: %s", logs.String())
	}
}

func TestMailRequestedUnparseablePayloadNotEchoed(t *testing.T) {
	// Arrange
	logs := captureLogs(t)
	uc := &stubUsecase{}
	h := &MQHandler{uc: uc, uuid: stubStringID{value: "cid-1"}, ins: instrument.NewNoop()}
	body := []byte(`{"smtp_host":"user:hunter2@mail.example.com"`)

	// Act
	err := h.MailRequested(t.Context(), stubMessage{body: body})

	// Assert
	if err != nil {
		t.Fatalf("unparseable payload must be acked, got %v", err)
	}
	if len(uc.consumed) != 0 {
		t.Fatalf("unparseable payload must not reach usecase, got %d calls", len(uc.consumed))
	}
	if strings.Contains(logs.String(), "hunter2") {
		t.Fatalf("log output leaked raw payload: %s", logs.String())
	}
}
