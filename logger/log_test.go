package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	log, closer, err := New(path, "info")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Debug().Msg("hidden")
	log.Info().Func(WithCategory(CategoryServer)).Msg("Listening")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, `"message":"Listening"`) || !strings.Contains(out, `"category":"server"`) {
		t.Fatalf("log file missing entry: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry leaked past info level: %s", out)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, _, err := New(filepath.Join(t.TempDir(), "x.log"), "loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewStdLogKeepsRawResponse(t *testing.T) {
	var buf bytes.Buffer
	NewStdLog(NewWriter(&buf), "/fiat/otc/item/online", []byte(`{"page":"1"}`), []byte("not json"))
	out := buf.String()
	if !strings.Contains(out, `"request":{"page":"1"}`) || !strings.Contains(out, `"response":"not json"`) {
		t.Fatalf("unexpected log line: %s", out)
	}
}
