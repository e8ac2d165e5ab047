package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCriticalLevelRenderedByName(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, "json")

	log.Critical("db: connection lost", "attempt", 3)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record["level"] != "CRITICAL" {
		t.Fatalf("expected CRITICAL level, got %v", record["level"])
	}
}

func TestBusinessErrorSkipsNil(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug, "text")

	log.BusinessError("members.create: duplicate", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}

	log.BusinessError("members.create: duplicate", errors.New("conflict"), "member_id", "m-1")
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "member_id=m-1") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		input    string
		terminal bool
		want     string
	}{
		{input: "", terminal: false, want: FormatJSON},
		{input: "", terminal: true, want: FormatPretty},
		{input: "TEXT", terminal: true, want: FormatText},
		{input: " pretty", terminal: false, want: FormatPretty},
		{input: "yaml", terminal: true, want: FormatJSON},
	}
	for _, tc := range cases {
		if got := parseFormat(tc.input, tc.terminal); got != tc.want {
			t.Fatalf("parseFormat(%q, %v) = %q, want %q", tc.input, tc.terminal, got, tc.want)
		}
	}
}

func TestErrorLogWritesAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, FormatText)

	ErrorLog(log).Print("http: TLS handshake error")

	out := buf.String()
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "TLS handshake error") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestParseLevelDefaultsToDebugInDevelopment(t *testing.T) {
	if got := parseLevel("", "development"); got != slog.LevelDebug {
		t.Fatalf("expected debug, got %v", got)
	}
	if got := parseLevel("", "production"); got != slog.LevelInfo {
		t.Fatalf("expected info, got %v", got)
	}
	if got := parseLevel("fatal", "production"); got != LevelCritical {
		t.Fatalf("expected critical, got %v", got)
	}
}
