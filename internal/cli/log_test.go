package cli

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	logger.Warn("advisory lookup failed", "pkg", "lodash", "version", "4.17.20")

	got := buf.String()
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(got) {
		t.Errorf("log line %q does not start with an HH:MM:SS.ms timestamp", got)
	}
	for _, want := range []string{"advisory lookup failed", "pkg=lodash", "version=4.17.20"} {
		if !strings.Contains(got, want) {
			t.Errorf("log line %q missing %q", got, want)
		}
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("fetched manifest") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("skipping unresolvable version") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("skipping unresolvable version") }, true},
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

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.Logger.Debug("hidden")
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")

	if got := buf.String(); strings.Contains(got, "hidden") || !strings.Contains(got, "shown") {
		t.Errorf("unexpected output after SetLogLevel: %q", got)
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Analyzed 4 dependencies")

	if !regexp.MustCompile(`Analyzed 4 dependencies \(\d+(\.\d+)?(ms|s|µs|ns)?\)`).MatchString(buf.String()) {
		t.Errorf("progress output %q should carry the elapsed time", buf.String())
	}
}
