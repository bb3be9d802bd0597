package testutil

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LogSpy is a slog.Handler that captures records for assertions.
type LogSpy struct {
	mu      sync.Mutex
	records []slog.Record
}

// NewLogSpy returns a spy and a logger writing into it.
func NewLogSpy() (*LogSpy, *slog.Logger) {
	spy := &LogSpy{}
	return spy, slog.New(spy)
}

func (s *LogSpy) Enabled(context.Context, slog.Level) bool { return true }

func (s *LogSpy) Handle(_ context.Context, record slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record.Clone())
	return nil
}

func (s *LogSpy) WithAttrs([]slog.Attr) slog.Handler { return s }

func (s *LogSpy) WithGroup(string) slog.Handler { return s }

// Records returns a copy of the captured records.
func (s *LogSpy) Records() []slog.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]slog.Record(nil), s.records...)
}

// Has reports whether a record with the given level and message was captured.
func (s *LogSpy) Has(level slog.Level, msg string) bool {
	for _, r := range s.Records() {
		if r.Level == level && r.Message == msg {
			return true
		}
	}
	return false
}

// Attr returns the value of key on the first record with message msg.
func (s *LogSpy) Attr(msg, key string) (slog.Value, bool) {
	for _, r := range s.Records() {
		if r.Message != msg {
			continue
		}
		var (
			val   slog.Value
			found bool
		)
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == key {
				val, found = a.Value, true
				return false
			}
			return true
		})
		if found {
			return val, true
		}
	}
	return slog.Value{}, false
}

// NewRequest creates a new HTTP request for testing with body encoded as JSON.
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		_ = json.Unmarshal(bodyBytes, &bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
