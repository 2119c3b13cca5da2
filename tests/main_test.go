package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

var realBaseURL string
var httpClient = &http.Client{Timeout: 5 * time.Second}

func baseURL() string {
	return realBaseURL
}

type successEnvelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
}

type errorEnvelope struct {
	Message string            `json:"message"`
	Error   map[string]string `json:"error"`
}

func TestMain(m *testing.M) {
	realBaseURL = strings.TrimSpace(os.Getenv("MAILBUS_REAL_BASE_URL"))
	if realBaseURL == "" {
		fmt.Fprintln(os.Stderr, "real tests skipped: set MAILBUS_REAL_BASE_URL to a running server (make run)")
		os.Exit(0)
	}

	healthURL := strings.TrimRight(realBaseURL, "/")
	resp, err := httpClient.Get(healthURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "real tests require a running server (make run). failed to reach %s: %v\n", healthURL, err)
		os.Exit(1)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		fmt.Fprintf(os.Stderr, "real tests require a healthy server. %s returned %s\n", healthURL, resp.Status)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

func doJSON(t *testing.T, method, path string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(payload); err != nil {
			t.Fatalf("encode json: %v", err)
		}
		body = buf
	}

	req, err := http.NewRequest(method, strings.TrimRight(baseURL(), "/")+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}

	return resp.StatusCode, raw
}

func decodeSuccess(t *testing.T, body []byte, dst any) {
	t.Helper()

	var env successEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode success envelope: %v", err)
	}
	if dst != nil {
		if err := json.Unmarshal(env.Data, dst); err != nil {
			t.Fatalf("decode success data: %v", err)
		}
	}
}

func decodeError(t *testing.T, body []byte) errorEnvelope {
	t.Helper()

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}

	return env
}
