// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"testing"
	"time"
)

func TestParseFlags_EnvVars(t *testing.T) {
	// Set env vars
	os.Setenv("PORT", "9000")
	os.Setenv("DATABASE_URL", "file:ballotbox.db")
	os.Setenv("ADMIN_KEY_SALT", "test-salt")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default database type sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.RetentionWindow != 24*time.Hour {
		t.Errorf("expected 24h default retention, got %s", cfg.RetentionWindow)
	}
	if cfg.CleanupInterval != time.Hour {
		t.Errorf("expected 1h default cleanup interval, got %s", cfg.CleanupInterval)
	}
}

func TestParseFlags_SQLiteDefaultURL(t *testing.T) {
	os.Setenv("ADMIN_KEY_SALT", "s1")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DatabaseURL != "file:ballotbox.db" {
		t.Errorf("expected embedded default URL, got %s", cfg.DatabaseURL)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-admin-salt", "s1"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
}

func TestParseFlags_RetentionSettings(t *testing.T) {
	os.Setenv("DATABASE_URL", "file:test.db")
	os.Setenv("ADMIN_KEY_SALT", "s1")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-retention-hours", "48", "-cleanup-minutes", "30"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.RetentionWindow != 48*time.Hour {
		t.Errorf("expected 48h retention, got %s", cfg.RetentionWindow)
	}
	if cfg.CleanupInterval != 30*time.Minute {
		t.Errorf("expected 30m cleanup interval, got %s", cfg.CleanupInterval)
	}
}

func TestParseFlags_Rejections(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"postgres without database url", map[string]string{"ADMIN_KEY_SALT": "s1"}, []string{"-t", "postgres"}},
		{"missing admin salt", map[string]string{"DATABASE_URL": "file:test.db"}, nil},
		{"bad database type", map[string]string{"DATABASE_URL": "file:test.db", "ADMIN_KEY_SALT": "s1"}, []string{"-t", "mongodb"}},
		{"bad retention env", map[string]string{"DATABASE_URL": "file:test.db", "ADMIN_KEY_SALT": "s1", "RETENTION_HOURS": "zero"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.env {
				os.Setenv(k, v)
			}
			defer os.Clearenv()

			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
