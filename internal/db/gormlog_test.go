package db

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"dues-app-go/pkg/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func traceSQL() (string, int64) {
	return "SELECT * FROM members", 3
}

func TestQueryLoggerReportsSlowStatements(t *testing.T) {
	var buf bytes.Buffer
	ql := newQueryLogger(logger.New(&buf, slog.LevelDebug, logger.FormatText), 50*time.Millisecond)

	ql.Trace(context.Background(), time.Now(), traceSQL, nil)
	if buf.Len() != 0 {
		t.Fatalf("fast query should be quiet, got %q", buf.String())
	}

	ql.Trace(context.Background(), time.Now().Add(-time.Second), traceSQL, nil)
	out := buf.String()
	if !strings.Contains(out, "db: slow query") || !strings.Contains(out, "rows=3") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestQueryLoggerSkipsRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	ql := newQueryLogger(logger.New(&buf, slog.LevelDebug, logger.FormatText), 0)

	ql.Trace(context.Background(), time.Now(), traceSQL, gorm.ErrRecordNotFound)
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}

	ql.Trace(context.Background(), time.Now(), traceSQL, errors.New("deadlock detected"))
	if !strings.Contains(buf.String(), "level=ERROR") {
		t.Fatalf("expected error record, got %q", buf.String())
	}
}

func TestQueryLoggerSilentMode(t *testing.T) {
	var buf bytes.Buffer
	ql := newQueryLogger(logger.New(&buf, slog.LevelDebug, logger.FormatText), time.Millisecond).LogMode(gormlogger.Silent)

	ql.Trace(context.Background(), time.Now().Add(-time.Second), traceSQL, errors.New("boom"))
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}
