package mail

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeDelivery struct {
	from string
	to   []string
	data string
}

// fakeSMTPServer speaks just enough SMTP for net/smtp clients without
// advertising STARTTLS or AUTH.
type fakeSMTPServer struct {
	ln net.Listener

	// failQuit makes the server reject QUIT with a 5xx reply.
	failQuit bool

	mu         sync.Mutex
	deliveries []fakeDelivery
}

func newFakeSMTPServer(t *testing.T) *fakeSMTPServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	s := &fakeSMTPServer{ln: ln}
	go s.serve()
	t.Cleanup(func() { _ = ln.Close() })
	return s
}

func (s *fakeSMTPServer) hostPort(t *testing.T) (string, string) {
	t.Helper()

	host, port, err := net.SplitHostPort(s.ln.Addr().String())
	if err != nil {
		t.Fatalf("split addr: %v", err)
	}
	return host, port
}

func (s *fakeSMTPServer) received() []fakeDelivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]fakeDelivery{}, s.deliveries...)
}

func (s *fakeSMTPServer) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *fakeSMTPServer) handle(conn net.Conn) {
	defer conn.Close()

	r := bufio.NewReader(conn)
	write := func(line string) { fmt.Fprintf(conn, "%s\r\n", line) }

	write("220 fake ready")

	var d fakeDelivery
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.ToUpper(strings.TrimSpace(line))

		switch {
		case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
			write("250 fake greets you")
		case strings.HasPrefix(cmd, "MAIL FROM:"):
			d.from = addrArg(line)
			write("250 ok")
		case strings.HasPrefix(cmd, "RCPT TO:"):
			d.to = append(d.to, addrArg(line))
			write("250 ok")
		case cmd == "DATA":
			write("354 go ahead")
			var sb strings.Builder
			for {
				dl, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if strings.TrimRight(dl, "\r\n") == "." {
					break
				}
				sb.WriteString(dl)
			}
			d.data = sb.String()
			s.mu.Lock()
			s.deliveries = append(s.deliveries, d)
			s.mu.Unlock()
			d = fakeDelivery{}
			write("250 accepted")
		case cmd == "RSET":
			d = fakeDelivery{}
			write("250 ok")
		case cmd == "QUIT":
			if s.failQuit {
				write("550 not today")
				return
			}
			write("221 bye")
			return
		default:
			write("250 ok")
		}
	}
}

func addrArg(line string) string {
	start := strings.Index(line, "<")
	end := strings.Index(line, ">")
	if start < 0 || end < start {
		return strings.TrimSpace(line)
	}
	return line[start+1 : end]
}

func TestDynamicSMTPSend(t *testing.T) {
	// Arrange
	srv := newFakeSMTPServer(t)
	host, port := srv.hostPort(t)

	tr, err := NewTransport(host, port)
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}
	sender := NewDynamicSMTP(tr, WithDialTimeout(2*time.Second))
	msg := Message{
		From:     "noreply@example.com",
		To:       []string{"rcpt@example.com"},
		Subject:  "greetings",
		HTMLBody: "<p>hello</p>",
	}

	// Act
	err = sender.Send(t.Context(), msg, nil)

	// Assert
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	got := srv.received()
	if len(got) != 1 {
		t.Fatalf("deliveries = %d, want 1", len(got))
	}
	if got[0].from != "noreply@example.com" {
		t.Fatalf("envelope from = %q, want %q", got[0].from, "noreply@example.com")
	}
	if len(got[0].to) != 1 || got[0].to[0] != "rcpt@example.com" {
		t.Fatalf("envelope to = %v, want [rcpt@example.com]", got[0].to)
	}
	if !strings.Contains(got[0].data, "Subject: greetings") {
		t.Fatalf("data missing subject header: %q", got[0].data)
	}
	if !strings.Contains(got[0].data, "<p>hello</p>") {
		t.Fatalf("data missing body: %q", got[0].data)
	}
}

func TestDynamicSMTPSendEnvelopeOverride(t *testing.T) {
	// Arrange
	srv := newFakeSMTPServer(t)
	host, port := srv.hostPort(t)

	tr, err := NewTransport(host, port)
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}
	sender := NewDynamicSMTP(tr)
	msg := Message{
		From:     "header@example.com",
		To:       []string{"header-rcpt@example.com"},
		Subject:  "s",
		TextBody: "b",
	}
	env := &Envelope{From: "bounce@example.com", To: []string{"real-rcpt@example.com"}}

	// Act
	err = sender.Send(t.Context(), msg, env)

	// Assert
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	got := srv.received()
	if len(got) != 1 {
		t.Fatalf("deliveries = %d, want 1", len(got))
	}
	if got[0].from != "bounce@example.com" {
		t.Fatalf("envelope from = %q, want override", got[0].from)
	}
	if len(got[0].to) != 1 || got[0].to[0] != "real-rcpt@example.com" {
		t.Fatalf("envelope to = %v, want override", got[0].to)
	}
	if !strings.Contains(got[0].data, "From: header@example.com") {
		t.Fatalf("header from must stay untouched: %q", got[0].data)
	}
}

func TestDynamicSMTPSendDialFailure(t *testing.T) {
	// Arrange
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	host, port, _ := net.SplitHostPort(addr)
	tr, err := NewTransport(host, port)
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}
	sender := NewDynamicSMTP(tr, WithDialTimeout(time.Second))

	// Act
	err = sender.Send(t.Context(), Message{From: "a@x", To: []string{"b@x"}}, nil)

	// Assert
	var sendErr *SendError
	if !errors.As(err, &sendErr) {
		t.Fatalf("error = %v, want *SendError", err)
	}
	if sendErr.Op != "dial" {
		t.Fatalf("op = %q, want dial", sendErr.Op)
	}
	if sendErr.Addr != addr {
		t.Fatalf("addr = %q, want %q", sendErr.Addr, addr)
	}
}

func TestDynamicSMTPSendQuitFailure(t *testing.T) {
	// Arrange
	srv := newFakeSMTPServer(t)
	srv.failQuit = true
	host, port := srv.hostPort(t)

	tr, err := NewTransport(host, port)
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}
	sender := NewDynamicSMTP(tr, WithDialTimeout(2*time.Second))

	// Act
	err = sender.Send(t.Context(), Message{
		From:     "a@x.com",
		To:       []string{"b@x.com"},
		Subject:  "s",
		TextBody: "hi",
	}, nil)

	// Assert
	var sendErr *SendError
	if !errors.As(err, &sendErr) {
		t.Fatalf("error = %v, want *SendError", err)
	}
	if sendErr.Op != "quit" {
		t.Fatalf("op = %q, want quit", sendErr.Op)
	}
	if got := srv.received(); len(got) != 1 {
		t.Fatalf("deliveries = %d, want 1 despite quit failure", len(got))
	}
}

func TestDynamicSMTPSendContextCanceled(t *testing.T) {
	// Arrange
	tr, err := NewTransport("mail.example.com", "587")
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}
	sender := NewDynamicSMTP(tr)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	// Act
	err = sender.Send(ctx, Message{From: "a@x", To: []string{"b@x"}}, nil)

	// Assert
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestDynamicSMTPSendValidation(t *testing.T) {
	// Arrange
	tr, err := NewTransport("mail.example.com", "587")
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}
	sender := NewDynamicSMTP(tr)

	// Act
	noSender := sender.Send(t.Context(), Message{To: []string{"b@x"}}, nil)
	noRcpt := sender.Send(t.Context(), Message{From: "a@x"}, nil)

	// Assert
	if !errors.Is(noSender, ErrNoSender) {
		t.Fatalf("error = %v, want ErrNoSender", noSender)
	}
	if !errors.Is(noRcpt, ErrNoRecipients) {
		t.Fatalf("error = %v, want ErrNoRecipients", noRcpt)
	}
}

func TestDynamicSMTPSendParallelIsolation(t *testing.T) {
	// Arrange
	const n = 4
	servers := make([]*fakeSMTPServer, n)
	for i := range servers {
		servers[i] = newFakeSMTPServer(t)
	}

	hosts := make([]string, n)
	ports := make([]string, n)
	for i := range servers {
		hosts[i], ports[i] = servers[i].hostPort(t)
	}

	// Act
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr, err := NewTransport(hosts[i], ports[i])
			if err != nil {
				errs[i] = err
				return
			}
			errs[i] = NewDynamicSMTP(tr).Send(t.Context(), Message{
				From:     "a@x.com",
				To:       []string{fmt.Sprintf("rcpt-%d@x.com", i)},
				Subject:  "s",
				TextBody: "hi",
			}, nil)
		}()
	}
	wg.Wait()

	// Assert
	for i, err := range errs {
		if err != nil {
			t.Fatalf("send %d returned error: %v", i, err)
		}
		got := servers[i].received()
		if len(got) != 1 {
			t.Fatalf("server %d deliveries = %d, want 1", i, len(got))
		}
		want := fmt.Sprintf("rcpt-%d@x.com", i)
		if len(got[0].to) != 1 || got[0].to[0] != want {
			t.Fatalf("server %d envelope to = %v, want [%s]", i, got[0].to, want)
		}
	}
}

func TestBuildBody(t *testing.T) {
	// Act
	htmlOnly, htmlType := buildBody(Message{HTMLBody: "<b>x</b>"})
	textOnly, textType := buildBody(Message{TextBody: "x"})
	both, bothType := buildBody(Message{TextBody: "x", HTMLBody: "<b>x</b>"})

	// Assert
	if htmlOnly != "<b>x</b>" || htmlType != "text/html; charset=UTF-8" {
		t.Fatalf("html body = %q type = %q", htmlOnly, htmlType)
	}
	if textOnly != "x" || textType != "text/plain; charset=UTF-8" {
		t.Fatalf("text body = %q type = %q", textOnly, textType)
	}
	if !strings.HasPrefix(bothType, "multipart/alternative; boundary=") {
		t.Fatalf("multipart type = %q", bothType)
	}
	if !strings.Contains(both, "x") || !strings.Contains(both, "<b>x</b>") {
		t.Fatalf("multipart body missing parts: %q", both)
	}
}
