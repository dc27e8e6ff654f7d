package cli

import (
	"path/filepath"
	"testing"

	"github.com/sdejongh/filecompare/pkg/config"
	"github.com/sdejongh/filecompare/pkg/logging"
	"github.com/sdejongh/filecompare/pkg/models"
)

func TestBuildCompareConfigUsesFileConfigWhenFlagsUnset(t *testing.T) {
	cmd := NewCompareCommand()
	var f compareFlags
	fileCfg := config.Default()
	fileCfg.Compare.TopK = 42
	fileCfg.Compare.Pairing = models.PairingSameName

	cfg, err := buildCompareConfig(cmd, &f, fileCfg)
	if err != nil {
		t.Fatalf("buildCompareConfig: %v", err)
	}
	if cfg.TopK != 42 {
		t.Errorf("TopK = %d, want 42 from the file config", cfg.TopK)
	}
	if cfg.Pairing != models.PairingSameName {
		t.Errorf("Pairing = %v, want same-name from the file config", cfg.Pairing)
	}
}

func TestBuildCompareConfigExplicitFlagOverridesFileConfig(t *testing.T) {
	cmd := NewCompareCommand()
	if err := cmd.Flags().Set("topk", "9"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	f := compareFlags{topK: 9}
	fileCfg := config.Default()
	fileCfg.Compare.TopK = 42

	cfg, err := buildCompareConfig(cmd, &f, fileCfg)
	if err != nil {
		t.Fatalf("buildCompareConfig: %v", err)
	}
	if cfg.TopK != 9 {
		t.Errorf("TopK = %d, want 9 from the explicit flag", cfg.TopK)
	}
}

func TestBuildCompareConfigRejectsUnknownMode(t *testing.T) {
	cmd := NewCompareCommand()
	if err := cmd.Flags().Set("mode", "bogus"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	f := compareFlags{mode: "bogus"}
	if _, err := buildCompareConfig(cmd, &f, config.Default()); err == nil {
		t.Error("expected an error for an unrecognized --mode")
	}
}

func TestLoadFileConfigFallsBackToDefaultWhenPathEmpty(t *testing.T) {
	cfg, err := loadFileConfig("")
	if err != nil {
		t.Fatalf("loadFileConfig(\"\") error = %v", err)
	}
	if cfg == nil {
		t.Fatal("expected a non-nil config")
	}
}

func TestLoadFileConfigReadsExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cfg := config.Default()
	cfg.Compare.TopK = 5
	if err := config.SaveToFile(cfg, path); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}

	loaded, err := loadFileConfig(path)
	if err != nil {
		t.Fatalf("loadFileConfig: %v", err)
	}
	if loaded.Compare.TopK != 5 {
		t.Errorf("TopK = %d, want 5", loaded.Compare.TopK)
	}
}

func TestLoadFileConfigMissingExplicitPathIsError(t *testing.T) {
	if _, err := loadFileConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing explicit --config path")
	}
}

func TestLoggerFromConfigFallsBackToNullWithoutFile(t *testing.T) {
	l := loggerFromConfig(&config.LoggingConfig{Enabled: true, File: ""})
	if _, ok := l.(*logging.NullLogger); !ok {
		t.Errorf("logger type = %T, want *logging.NullLogger when no file is configured", l)
	}
}

func TestLoggerFromConfigFallsBackToNullWhenDisabled(t *testing.T) {
	dir := t.TempDir()
	l := loggerFromConfig(&config.LoggingConfig{Enabled: false, File: filepath.Join(dir, "run.log")})
	if _, ok := l.(*logging.NullLogger); !ok {
		t.Errorf("logger type = %T, want *logging.NullLogger when logging is disabled", l)
	}
}

func TestLoggerFromConfigBuildsFileLoggerWhenEnabled(t *testing.T) {
	dir := t.TempDir()
	l := loggerFromConfig(&config.LoggingConfig{Enabled: true, Format: "json", Level: "info", File: filepath.Join(dir, "run.log")})
	if _, ok := l.(*logging.FileLogger); !ok {
		t.Errorf("logger type = %T, want *logging.FileLogger", l)
	}
}
