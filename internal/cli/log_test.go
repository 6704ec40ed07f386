package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("resolved") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("probe") }, false},
		{"debug at debug level", LogDebug, func(l *log.Logger) { l.Debug("probe") }, true},
		{"warn at info level", LogInfo, func(l *log.Logger) { l.Warn("degraded") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))

			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Resolved 2 of 2 artifacts")

	out := buf.String()
	if !strings.Contains(out, "Resolved 2 of 2 artifacts (") {
		t.Errorf("done() output = %q, want message with elapsed time", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)

	if got := loggerFromContext(withLogger(context.Background(), custom)); got != custom {
		t.Error("loggerFromContext() did not return the attached logger")
	}
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Errorf("loggerFromContext() = %v, want log.Default()", got)
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("probe")

	if buf.Len() == 0 {
		t.Error("SetLogLevel(LogDebug) did not enable debug output")
	}
}

func TestDebugHooks(t *testing.T) {
	var buf bytes.Buffer
	h := debugHooks{logger: newLogger(&buf, LogDebug)}
	ctx := context.Background()

	h.OnDegraded(ctx, "artifact", "org.example:lib:1.0", "secondary")
	h.OnCacheMiss(ctx, "metadata")

	out := buf.String()
	for _, want := range []string{"degraded match", "match=secondary", "cache miss"} {
		if !strings.Contains(out, want) {
			t.Errorf("hook output = %q, want it to contain %q", out, want)
		}
	}
}
