package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func resetLogging(t *testing.T) {
	t.Helper()
	CloseAll()
	logsDir = ""
	settings = Settings{}
	t.Cleanup(func() {
		CloseAll()
		logsDir = ""
		settings = Settings{}
	})
}

// TestAllCategoriesLog tests that all categories create log files when debug mode is on
func TestAllCategoriesLog(t *testing.T) {
	resetLogging(t)
	tempDir := t.TempDir()

	if err := Initialize(tempDir, Settings{DebugMode: true, Level: "debug"}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	if !IsDebugMode() {
		t.Fatal("Expected debug mode to be enabled")
	}

	for _, cat := range Categories {
		if !IsCategoryEnabled(cat) {
			t.Errorf("Category %s should be enabled", cat)
		}
		Get(cat).Info("Test info message for %s", cat)
	}
	API("Convenience api log")
	Store("Convenience store log")
	State("Convenience state log")
	UI("Convenience ui log")
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(tempDir, "logs"))
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}
	for _, cat := range Categories {
		found := false
		for _, entry := range entries {
			if strings.HasSuffix(entry.Name(), "_"+string(cat)+".log") {
				found = true
				content, err := os.ReadFile(filepath.Join(tempDir, "logs", entry.Name()))
				if err != nil {
					t.Fatalf("Failed to read log file for %s: %v", cat, err)
				}
				if len(content) == 0 {
					t.Errorf("Log file for %s is empty", cat)
				}
			}
		}
		if !found {
			t.Errorf("No log file found for category: %s", cat)
		}
	}
}

// TestDebugModeDisabled tests that no logs are created in production mode
func TestDebugModeDisabled(t *testing.T) {
	resetLogging(t)
	tempDir := t.TempDir()

	if err := Initialize(tempDir, Settings{DebugMode: false}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	API("should not be written")
	Store("should not be written")

	if _, err := os.Stat(filepath.Join(tempDir, "logs")); !os.IsNotExist(err) {
		t.Errorf("logs directory should not exist in production mode")
	}
}

func TestCategoryToggle(t *testing.T) {
	resetLogging(t)
	tempDir := t.TempDir()

	err := Initialize(tempDir, Settings{
		DebugMode:  true,
		Level:      "info",
		Categories: map[string]bool{"api": false, "store": true},
	})
	if err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if IsCategoryEnabled(CategoryAPI) {
		t.Error("api should be disabled")
	}
	if !IsCategoryEnabled(CategoryStore) {
		t.Error("store should be enabled")
	}
	if !IsCategoryEnabled(CategoryUI) {
		t.Error("unlisted categories default to enabled")
	}
}

func TestJSONFormat(t *testing.T) {
	resetLogging(t)
	tempDir := t.TempDir()

	if err := Initialize(tempDir, Settings{DebugMode: true, Level: "debug", JSONFormat: true}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	State("view changed to %s", "plan")
	CloseAll()

	name := time.Now().Format("2006-01-02") + "_state.log"
	content, err := os.ReadFile(filepath.Join(tempDir, "logs", name))
	if err != nil {
		t.Fatalf("Failed to read state log: %v", err)
	}
	if !strings.Contains(string(content), `"msg":"view changed to plan"`) {
		t.Errorf("expected JSON entry, got %s", content)
	}
}

func TestStructuredLogFields(t *testing.T) {
	resetLogging(t)
	tempDir := t.TempDir()

	if err := Initialize(tempDir, Settings{DebugMode: true, JSONFormat: true}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	Get(CategoryAPI).StructuredLog("info", "plan generated", map[string]interface{}{"bytes": 42})
	CloseAll()

	name := time.Now().Format("2006-01-02") + "_api.log"
	content, err := os.ReadFile(filepath.Join(tempDir, "logs", name))
	if err != nil {
		t.Fatalf("Failed to read api log: %v", err)
	}
	if !strings.Contains(string(content), `"fields":{"bytes":42}`) {
		t.Errorf("expected fields in entry, got %s", content)
	}
}

func TestTimerLogging(t *testing.T) {
	resetLogging(t)
	timer := StartTimer(CategoryAPI, "noop")
	time.Sleep(time.Millisecond)
	if d := timer.StopWithThreshold(time.Hour); d <= 0 {
		t.Errorf("expected positive duration, got %v", d)
	}
}
