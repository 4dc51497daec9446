package config

import (
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so defaults apply
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_MODE", "PORT", "UPLOAD_MAX_BYTES", "STORAGE_BACKEND", "STORAGE_ROOT",
		"DEV_DB_PASS", "PROD_DB_PASS", "DEV_JWT_SECRET", "PROD_JWT_SECRET",
		"DEV_JWT_REFRESH_SECRET", "PROD_JWT_REFRESH_SECRET",
		"DB_MAX_OPEN_CONNS", "DB_OP_TIMEOUT", "ADMIN_SIGNUP_CODE", "ADMIN_CODE_TTL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDevDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.IsDev() || cfg.Port != "3000" {
		t.Fatalf("unexpected mode/port %s/%s", cfg.AppMode, cfg.Port)
	}
	if cfg.Database.MaxOpenConns != 5 || cfg.Database.OpTimeout != 5*time.Second {
		t.Fatalf("unexpected pool settings %+v", cfg.Database)
	}
	if cfg.Auth.AdminSignupCode != "INDIA" || !cfg.Auth.SeedUsers {
		t.Fatalf("unexpected dev auth config %+v", cfg.Auth)
	}
	if cfg.Storage.Backend != "local" || cfg.Storage.Root != "public" {
		t.Fatalf("unexpected storage config %+v", cfg.Storage)
	}
	if cfg.Feedback.UploadMaxBytes != 10<<20 {
		t.Fatalf("unexpected upload limit %d", cfg.Feedback.UploadMaxBytes)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_MAX_OPEN_CONNS", "12")
	t.Setenv("DB_OP_TIMEOUT", "750ms")
	t.Setenv("ADMIN_CODE_TTL", "not-a-duration")
	t.Setenv("STORAGE_BACKEND", " MinIO ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.MaxOpenConns != 12 || cfg.Database.OpTimeout != 750*time.Millisecond {
		t.Fatalf("overrides not applied: %+v", cfg.Database)
	}
	if cfg.Auth.AdminCodeTTL != 15*time.Minute {
		t.Fatalf("expected default TTL for an unparsable value, got %s", cfg.Auth.AdminCodeTTL)
	}
	if cfg.Storage.Backend != "minio" {
		t.Fatalf("expected normalized backend, got %q", cfg.Storage.Backend)
	}
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_MODE", "staging")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown APP_MODE")
	}
}

func TestLoadProdRequiresSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_MODE", "prod")

	if _, err := Load(); err == nil {
		t.Fatal("expected prod without a database password to fail")
	}

	t.Setenv("PROD_DB_PASS", "s3cret")
	if _, err := Load(); err == nil {
		t.Fatal("expected prod with default JWT secrets to fail")
	}

	t.Setenv("PROD_JWT_SECRET", "access-secret")
	t.Setenv("PROD_JWT_REFRESH_SECRET", "refresh-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.AdminSignupCode != "" || cfg.Auth.SeedUsers {
		t.Fatalf("prod must not carry dev auth defaults: %+v", cfg.Auth)
	}
}
