package config

import "testing"

func TestDefaultConfigPassesValidation(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsZeroWorkers(t *testing.T) {
	cfg := Default()
	cfg.Performance.FingerprintWorkers = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected an error for zero fingerprint workers")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if ve.Field != "performance.fingerprint_workers" {
		t.Errorf("Field = %q, want performance.fingerprint_workers", ve.Field)
	}
}

func TestValidateRejectsNegativeTopK(t *testing.T) {
	cfg := Default()
	cfg.Compare.TopK = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for a negative top_k")
	}
}

func TestValidateRejectsUnknownMode(t *testing.T) {
	cfg := Default()
	cfg.Compare.Mode = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an unrecognized compare mode")
	}
}

func TestValidateRejectsUnknownPairingStrategy(t *testing.T) {
	cfg := Default()
	cfg.Compare.Pairing = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an unrecognized pairing strategy")
	}
}

func TestValidateRejectsUnknownOutputFormat(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an unrecognized output format")
	}
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an unrecognized log level")
	}
}

func TestValidationErrorMessageIncludesField(t *testing.T) {
	err := &ValidationError{Field: "compare.top_k", Message: "must not be negative"}
	want := "compare.top_k: must not be negative"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
