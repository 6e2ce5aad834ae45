package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(*Config) bool
	}{
		{
			name: "loads with all vars set",
			envVars: map[string]string{
				"PORT":            "8080",
				"ENV":             "production",
				"DATABASE_URL":    "postgres://localhost/presenca",
				"MATCH_THRESHOLD": "0.45",
				"EMBEDDING_DIM":   "512",
				"FACILITY_TZ":     "America/Sao_Paulo",
			},
			wantErr: false,
			check: func(c *Config) bool {
				return c.Port == 8080 &&
					c.Environment == "production" &&
					c.DatabaseURL == "postgres://localhost/presenca" &&
					c.MatchThreshold == 0.45 &&
					c.EmbeddingDim == 512 &&
					c.FacilityTZ == "America/Sao_Paulo"
			},
		},
		{
			name:    "uses defaults when vars missing",
			envVars: map[string]string{},
			wantErr: false,
			check: func(c *Config) bool {
				return c.Port == 3000 &&
					c.Environment == "development" &&
					c.DatabaseURL == "" &&
					c.MatchThreshold == 0.6 &&
					c.EmbeddingDim == 128 &&
					c.FacilityTZ == "UTC"
			},
		},
		{
			name: "fails on invalid threshold",
			envVars: map[string]string{
				"MATCH_THRESHOLD": "not-a-number",
			},
			wantErr: true,
			check:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			// Set test environment variables
			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}

			cfg, err := Load()

			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("config check failed: %+v", cfg)
			}
		})
	}
}

func TestConfig_Location(t *testing.T) {
	cfg := &Config{FacilityTZ: "America/Sao_Paulo"}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.String() != "America/Sao_Paulo" {
		t.Errorf("expected America/Sao_Paulo, got %s", loc)
	}

	cfg = &Config{FacilityTZ: "Not/AZone"}
	if _, err := cfg.Location(); err == nil {
		t.Error("expected error for unknown zone")
	}

	cfg = &Config{FacilityTZ: "UTC"}
	loc, err = cfg.Location()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc != time.UTC {
		t.Errorf("expected UTC, got %s", loc)
	}
}

func TestConfig_EnvironmentHelpers(t *testing.T) {
	dev := &Config{Environment: "development"}
	if !dev.IsDevelopment() || dev.IsProduction() {
		t.Error("development environment misclassified")
	}

	prod := &Config{Environment: "production"}
	if !prod.IsProduction() || prod.IsDevelopment() {
		t.Error("production environment misclassified")
	}
}
