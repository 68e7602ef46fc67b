package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/a3tai/pdf-sheet-extractor/internal/config"
	"github.com/a3tai/pdf-sheet-extractor/internal/pdf"
	"github.com/a3tai/pdf-sheet-extractor/internal/web"
)

const testVersion = "1.2.3"

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	originalStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = originalStdout }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
		w.Close()
	}()

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	<-done

	return buf.String()
}

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	defer func() {
		version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit
	}()

	version = testVersion
	buildTime = "2023-12-01_10:30:00"
	gitCommit = "abc123"

	output := captureStdout(t, printVersion)

	expectedStrings := []string{
		"PDF Sheet Extractor",
		"Version: " + testVersion,
		"Build Time: 2023-12-01_10:30:00",
		"Git Commit: abc123",
		"Built with:",
	}
	for _, expected := range expectedStrings {
		if !strings.Contains(output, expected) {
			t.Errorf("printVersion() output missing expected string: %s\nActual output:\n%s", expected, output)
		}
	}
}

func TestPrintVersionWithDefaults(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	defer func() {
		version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit
	}()

	version = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"

	output := captureStdout(t, printVersion)

	for _, expected := range []string{"Version: dev", "Build Time: unknown", "Git Commit: unknown"} {
		if !strings.Contains(output, expected) {
			t.Errorf("printVersion() output missing expected string: %s\nActual output:\n%s", expected, output)
		}
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name        string
		config      *config.Config
		wantEnabled zapcore.Level
		wantSkipped zapcore.Level
	}{
		{
			name:        "server mode info",
			config:      &config.Config{Mode: config.ModeServer, LogLevel: "info"},
			wantEnabled: zapcore.InfoLevel,
			wantSkipped: zapcore.DebugLevel,
		},
		{
			name:        "server mode debug",
			config:      &config.Config{Mode: config.ModeServer, LogLevel: "debug"},
			wantEnabled: zapcore.DebugLevel,
		},
		{
			name:        "stdio mode is quiet",
			config:      &config.Config{Mode: config.ModeStdio, LogLevel: "info"},
			wantEnabled: zapcore.WarnLevel,
			wantSkipped: zapcore.InfoLevel,
		},
		{
			name:        "stdio mode debug",
			config:      &config.Config{Mode: config.ModeStdio, LogLevel: "debug"},
			wantEnabled: zapcore.DebugLevel,
		},
		{
			name:        "stdio mode error level kept",
			config:      &config.Config{Mode: config.ModeStdio, LogLevel: "error"},
			wantEnabled: zapcore.ErrorLevel,
			wantSkipped: zapcore.WarnLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := newLogger(tt.config)
			if err != nil {
				t.Fatalf("newLogger() error = %v", err)
			}

			if !logger.Core().Enabled(tt.wantEnabled) {
				t.Errorf("level %s should be enabled", tt.wantEnabled)
			}
			if tt.wantSkipped != tt.wantEnabled && logger.Core().Enabled(tt.wantSkipped) {
				t.Errorf("level %s should be disabled", tt.wantSkipped)
			}
		})
	}
}

func TestRunServerMode_ListenError(t *testing.T) {
	pdfService, err := pdf.NewService(1024*1024, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Failed to create PDF service: %v", err)
	}
	server, err := web.NewServer(pdfService, nil)
	if err != nil {
		t.Fatalf("Failed to create web server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := runServerMode(ctx, cancel, server, "256.256.256.256:1", zap.NewNop()); err == nil {
		t.Error("runServerMode() should fail for an unusable address")
	}
}

func TestRunServerMode_StopsOnCancel(t *testing.T) {
	pdfService, err := pdf.NewService(1024*1024, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Failed to create PDF service: %v", err)
	}
	server, err := web.NewServer(pdfService, nil)
	if err != nil {
		t.Fatalf("Failed to create web server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runServerMode(ctx, cancel, server, "127.0.0.1:0", zap.NewNop())
	}()

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("runServerMode() error = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runServerMode() did not return after cancel")
	}
}

func TestVersionFlagDetection(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		hasVersion bool
	}{
		{name: "no version flag", args: []string{"program"}, hasVersion: false},
		{name: "-version flag", args: []string{"program", "-version"}, hasVersion: true},
		{name: "--version flag", args: []string{"program", "--version"}, hasVersion: true},
		{name: "-v flag", args: []string{"program", "-v"}, hasVersion: true},
		{name: "version flag with other args", args: []string{"program", "--mode=server", "--version", "--port=2791"}, hasVersion: true},
		{name: "similar but not version flag", args: []string{"program", "-verbose", "-versions"}, hasVersion: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := false
			for _, arg := range tt.args[1:] {
				if arg == "-version" || arg == "--version" || arg == "-v" {
					found = true
					break
				}
			}

			if found != tt.hasVersion {
				t.Errorf("Version flag detection for %v: got %v, want %v", tt.args, found, tt.hasVersion)
			}
		})
	}
}
