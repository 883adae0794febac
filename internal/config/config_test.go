package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Address != ":5000" {
		t.Fatalf("expected default address :5000, got %q", cfg.Server.Address)
	}
	if cfg.JWT.Expiration != 720*time.Hour {
		t.Fatalf("expected default expiration 720h, got %v", cfg.JWT.Expiration)
	}
	if cfg.Database.Driver != DriverMongo {
		t.Fatalf("expected mongo driver, got %q", cfg.Database.Driver)
	}
	if cfg.IsProduction() {
		t.Fatal("default env must not be production")
	}
	if cfg.S3.Enabled() {
		t.Fatal("s3 must be disabled without a bucket")
	}
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := "env: production\nserver:\n  address: \":7000\"\njwt:\n  secret: from-file\n  expiration: 2h\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SERVER_ADDRESS", ":9090")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Address != ":9090" {
		t.Fatalf("expected env override :9090, got %q", cfg.Server.Address)
	}
	if cfg.JWT.Secret != "from-file" {
		t.Fatalf("expected secret from file, got %q", cfg.JWT.Secret)
	}
	if cfg.JWT.Expiration != 2*time.Hour {
		t.Fatalf("expected 2h expiration, got %v", cfg.JWT.Expiration)
	}
	if !cfg.IsProduction() {
		t.Fatal("expected production env")
	}
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_NAME=from_dotenv_test\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("DATABASE_NAME") })

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Database.Name != "from_dotenv_test" {
		t.Fatalf("expected database name from .env, got %q", cfg.Database.Name)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing secret",
			cfg:     Config{Database: DatabaseConfig{Driver: DriverMemory}},
			wantErr: "jwt.secret",
		},
		{
			name:    "unknown driver",
			cfg:     Config{JWT: JWTConfig{Secret: "s"}, Database: DatabaseConfig{Driver: "postgres"}},
			wantErr: "unknown database.driver",
		},
		{
			name:    "mongo without uri",
			cfg:     Config{JWT: JWTConfig{Secret: "s"}, Database: DatabaseConfig{Driver: DriverMongo, Name: "db"}},
			wantErr: "database.uri",
		},
		{
			name: "memory ok",
			cfg:  Config{JWT: JWTConfig{Secret: "s"}, Database: DatabaseConfig{Driver: DriverMemory}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}
