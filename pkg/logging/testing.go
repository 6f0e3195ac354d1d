package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestLogger captures JSON log lines so tests can assert on run fields.
type TestLogger struct {
	*zerolog.Logger
	Buffer *bytes.Buffer
}

// NewTestLogger returns a trace-level logger writing into a buffer.
// The global level is restored when the test ends.
func NewTestLogger(t testing.TB) *TestLogger {
	t.Helper()

	buf := &bytes.Buffer{}
	oldLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(oldLevel)
	})

	logger := zerolog.New(buf).Level(zerolog.TraceLevel)
	return &TestLogger{Logger: &logger, Buffer: buf}
}

// Lines returns the captured output, one element per log line.
func (tl *TestLogger) Lines() []string {
	output := strings.TrimSpace(tl.Buffer.String())
	if output == "" {
		return []string{}
	}
	return strings.Split(output, "\n")
}

// Entries decodes every captured line. Lines that are not JSON are skipped.
func (tl *TestLogger) Entries() []map[string]any {
	var entries []map[string]any
	for _, line := range tl.Lines() {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err == nil {
			entries = append(entries, entry)
		}
	}
	return entries
}

// WithField returns the entries whose string field key equals value,
// e.g. every line of one run or one stage.
func (tl *TestLogger) WithField(key, value string) []map[string]any {
	var matched []map[string]any
	for _, entry := range tl.Entries() {
		if v, ok := entry[key].(string); ok && v == value {
			matched = append(matched, entry)
		}
	}
	return matched
}

// Messages returns the message of every captured entry in order.
func (tl *TestLogger) Messages() []string {
	var messages []string
	for _, entry := range tl.Entries() {
		if msg, ok := entry[zerolog.MessageFieldName].(string); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}

// Count returns the number of captured lines.
func (tl *TestLogger) Count() int {
	return len(tl.Lines())
}

// Clear drops everything captured so far.
func (tl *TestLogger) Clear() {
	tl.Buffer.Reset()
}

// AssertContains fails the test when no line contains substr.
func (tl *TestLogger) AssertContains(t testing.TB, substr string) {
	t.Helper()
	if !strings.Contains(tl.Buffer.String(), substr) {
		t.Errorf("Log output does not contain %q\nOutput:\n%s", substr, tl.Buffer.String())
	}
}

// AssertNotContains fails the test when any line contains substr.
func (tl *TestLogger) AssertNotContains(t testing.TB, substr string) {
	t.Helper()
	if strings.Contains(tl.Buffer.String(), substr) {
		t.Errorf("Log output should not contain %q\nOutput:\n%s", substr, tl.Buffer.String())
	}
}

// AssertField fails the test when no entry carries key=value.
func (tl *TestLogger) AssertField(t testing.TB, key, value string) {
	t.Helper()
	if len(tl.WithField(key, value)) == 0 {
		t.Errorf("No log entry with %s=%q\nOutput:\n%s", key, value, tl.Buffer.String())
	}
}

// AssertCount fails the test unless exactly expected lines were captured.
func (tl *TestLogger) AssertCount(t testing.TB, expected int) {
	t.Helper()
	if actual := tl.Count(); actual != expected {
		t.Errorf("Expected %d log entries, got %d\nOutput:\n%s", expected, actual, tl.Buffer.String())
	}
}

// DisableLoggingForTest silences the default logger until the test ends.
func DisableLoggingForTest(t testing.TB) {
	t.Helper()

	original := *Default()
	SetDefault(zerolog.Nop())
	t.Cleanup(func() {
		SetDefault(original)
	})
}

// CaptureLoggingForTest routes the default logger into a TestLogger until
// the test ends. Run logs through the default logger unless the context
// carries one, so this captures a whole run.
func CaptureLoggingForTest(t testing.TB) *TestLogger {
	t.Helper()

	original := *Default()
	tl := NewTestLogger(t)
	SetDefault(*tl.Logger)
	t.Cleanup(func() {
		SetDefault(original)
	})
	return tl
}
