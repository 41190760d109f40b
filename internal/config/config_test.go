package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validConfig = `
server:
  host: 0.0.0.0
  port: 8080
database:
  host: localhost
  port: 5432
  user: studyshare
  password: secret
  dbname: studyshare
  sslmode: disable
aws:
  region: eu-west-1
  s3_bucket: studyshare-materials
  access_key: AKIA123
  secret_key: shhh
oauth:
  client_id: client
  client_secret: secret
  redirect_url: http://localhost:8080/auth/callback
session:
  secret: session-secret
  ttl_hours: 16
log:
  level: info
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.AWS.S3Bucket != "studyshare-materials" {
		t.Errorf("unexpected bucket %q", cfg.AWS.S3Bucket)
	}
	if cfg.Session.TTLHours != 16 {
		t.Errorf("unexpected session ttl %d", cfg.Session.TTLHours)
	}

	want := "host=localhost port=5432 user=studyshare password=secret dbname=studyshare sslmode=disable"
	if dsn := cfg.Database.DSN(); dsn != want {
		t.Errorf("unexpected DSN %q", dsn)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidateRejectsMissingKeys(t *testing.T) {
	cases := map[string]func(*Config){
		"database": func(c *Config) { c.Database.Host = "" },
		"bucket":   func(c *Config) { c.AWS.S3Bucket = "" },
		"oauth":    func(c *Config) { c.OAuth.ClientSecret = "" },
		"session":  func(c *Config) { c.Session.Secret = "" },
	}

	for name, mutate := range cases {
		cfg, err := Load(writeConfig(t, validConfig))
		if err != nil {
			t.Fatalf("failed to load base config: %v", err)
		}
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected validation error for missing %s", name)
		}
	}
}

func TestValidateDefaultsSessionTTL(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	cfg.Session.TTLHours = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	if cfg.Session.TTLHours != 16 {
		t.Errorf("expected default ttl 16, got %d", cfg.Session.TTLHours)
	}
}
