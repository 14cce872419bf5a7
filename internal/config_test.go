package internal

import (
	"strings"
	"testing"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFilingConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Filing.CosineWeight != 0.6 {
		t.Errorf("cosine_weight = %v, want 0.6", cfg.Filing.CosineWeight)
	}
	if cfg.Filing.Threshold != 0.4 {
		t.Errorf("threshold = %v, want 0.4", cfg.Filing.Threshold)
	}
	if cfg.Filing.RecencyBias != 0.25 {
		t.Errorf("recency_bias = %v, want 0.25", cfg.Filing.RecencyBias)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestFilingConfig_RejectsOutOfRange(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Filing.Threshold = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("threshold above 1 should fail validation")
	}
}

func TestDefaultConfig_Keybindings(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Keybindings.SubmitSnippet == "" {
		t.Error("default keybindings should be populated")
	}
}
