package nucleo

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-botvac/internal/robot"
)

const (
	testSerial = "OPS01234-0123456789AB"
	testSecret = "s3cr3t"
)

var fixedNow = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

// captured is one request seen by the test server.
type captured struct {
	path   string
	header http.Header
	body   []byte
}

func newTestServer(t *testing.T, status int, reply string) (*httptest.Server, func() []captured) {
	t.Helper()

	var mu sync.Mutex
	var seen []captured
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		seen = append(seen, captured{path: r.URL.Path, header: r.Header.Clone(), body: body})
		mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)

	return srv, func() []captured {
		mu.Lock()
		defer mu.Unlock()
		return append([]captured(nil), seen...)
	}
}

func newTestClient(srv *httptest.Server) *Client {
	c := New(Config{BaseURL: srv.URL + "/"}, StaticSecrets{testSerial: testSecret})
	c.now = func() time.Time { return fixedNow }
	return c
}

func TestSign(t *testing.T) {
	body := []byte(`{"reqId":0,"cmd":"getRobotState"}`)
	date := "Wed, 14 Oct 2026 09:30:00 GMT"

	got := Sign(testSecret, testSerial, date, body)
	if len(got) != 64 {
		t.Fatalf("signature length = %d, want 64", len(got))
	}
	if Sign(testSecret, "ops01234-0123456789ab", date, body) != got {
		t.Error("signature depends on serial case")
	}
	if Sign("other", testSerial, date, body) == got {
		t.Error("signature does not depend on secret")
	}
	if Sign(testSecret, testSerial, date, []byte(`{}`)) == got {
		t.Error("signature does not depend on body")
	}
}

func TestClient_Send(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, `{"version":1,"result":"ok","data":{}}`)
	c := newTestClient(srv)

	resp, err := c.Send(context.Background(), testSerial, robot.Command{
		Name:   "startCleaning",
		Params: map[string]any{"category": 2, "mode": 1, "modifier": 1},
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if resp["result"] != "ok" {
		t.Errorf("resp[result] = %v, want ok", resp["result"])
	}

	reqs := seen()
	if len(reqs) != 1 {
		t.Fatalf("server saw %d requests, want 1", len(reqs))
	}
	req := reqs[0]

	if want := "/vendors/neato/robots/" + testSerial + "/messages"; req.path != want {
		t.Errorf("path = %q, want %q", req.path, want)
	}
	if got := req.header.Get("Accept"); got != "application/vnd.neato.nucleo.v1" {
		t.Errorf("Accept = %q", got)
	}
	date := req.header.Get("X-Date")
	if date != "Wed, 14 Oct 2026 09:30:00 GMT" {
		t.Errorf("X-Date = %q", date)
	}
	if want := "NEATOAPP " + Sign(testSecret, testSerial, date, req.body); req.header.Get("Authorization") != want {
		t.Errorf("Authorization = %q, want %q", req.header.Get("Authorization"), want)
	}

	var body map[string]any
	if err := json.Unmarshal(req.body, &body); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	if body["reqId"] != float64(0) || body["cmd"] != "startCleaning" {
		t.Errorf("body = %v", body)
	}
	params, _ := body["params"].(map[string]any)
	if params["category"] != float64(2) {
		t.Errorf("params = %v", params)
	}
}

func TestClient_ReqIDIncrements(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, `{}`)
	c := newTestClient(srv)

	for i := 0; i < 3; i++ {
		if _, err := c.Send(context.Background(), testSerial, robot.Command{Name: "getRobotState"}); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
	}

	for i, req := range seen() {
		var body struct {
			ReqID  int64           `json:"reqId"`
			Params json.RawMessage `json:"params"`
		}
		if err := json.Unmarshal(req.body, &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.ReqID != int64(i) {
			t.Errorf("request %d reqId = %d", i, body.ReqID)
		}
		if body.Params != nil {
			t.Errorf("request %d has params %s, want none", i, body.Params)
		}
	}
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		reply   string
		serial  string
		wantErr error
	}{
		{name: "non-2xx", status: http.StatusForbidden, reply: `{"message":"bad sig"}`, serial: testSerial, wantErr: ErrRequestFailed},
		{name: "invalid json", status: http.StatusOK, reply: `not json`, serial: testSerial, wantErr: ErrInvalidResponse},
		{name: "unknown serial", status: http.StatusOK, reply: `{}`, serial: "OTHER", wantErr: ErrNoSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.reply)
			c := newTestClient(srv)

			_, err := c.Send(context.Background(), tt.serial, robot.Command{Name: "findMe"})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Send() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{}`)
	c := newTestClient(srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Send(ctx, testSerial, robot.Command{Name: "findMe"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Send() error = %v, want context.Canceled", err)
	}
}

func TestClient_ImplementsTransport(t *testing.T) {
	var _ robot.Transport = (*Client)(nil)
}

func TestNew_Defaults(t *testing.T) {
	c := New(Config{}, StaticSecrets{})
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
	}
	if c.http.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", c.http.Timeout, DefaultTimeout)
	}
}
