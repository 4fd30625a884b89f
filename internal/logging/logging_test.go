package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run_log.txt")

	log, closer, err := SetupWithFile("json", path)
	if err != nil {
		t.Fatalf("SetupWithFile: %v", err)
	}
	log.Info().Str("study_id", "S1").Msg("report evaluated")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	line := string(data)
	if !strings.Contains(line, `"study_id":"S1"`) || !strings.Contains(line, `"message":"report evaluated"`) {
		t.Errorf("unexpected log file content: %s", line)
	}
}

func TestSetupWithFile_BadPath(t *testing.T) {
	if _, _, err := SetupWithFile("text", filepath.Join(t.TempDir(), "missing", "log.txt")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
