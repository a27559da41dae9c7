package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	testutil.AssertEqual(t, "save dir", cfg.SaveDir, "saves")
	testutil.AssertEqual(t, "timeout", cfg.EnhanceTimeout, 3*time.Second)
	testutil.AssertEqual(t, "model", cfg.GeminiModel, "gemini-2.5-flash")
	testutil.AssertEqual(t, "enhance", cfg.Enhance, false)
	testutil.AssertEqual(t, "sqlite", cfg.UseSQLite(), false)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("STORYSEED_SEED", "test-seed")
	t.Setenv("STORYSEED_ENHANCE", "true")
	t.Setenv("STORYSEED_ENHANCE_TIMEOUT", "500ms")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("STORYSEED_DB_PATH", "story.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	testutil.AssertEqual(t, "seed", cfg.Seed, "test-seed")
	testutil.AssertEqual(t, "timeout", cfg.EnhanceTimeout, 500*time.Millisecond)
	testutil.AssertEqual(t, "enhancement", cfg.EnhancementEnabled(), true)
	testutil.AssertEqual(t, "sqlite", cfg.UseSQLite(), true)
}

func TestLoad_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("STORYSEED_LOG_FILE=story.log\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that are already set.
	t.Setenv("STORYSEED_LOG_FILE", "")
	os.Unsetenv("STORYSEED_LOG_FILE")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	testutil.AssertEqual(t, "log file", cfg.LogFile, "story.log")
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv("STORYSEED_ENHANCE_TIMEOUT", "soon")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	testutil.AssertErrorContains(t, err, "parse env:")
}
