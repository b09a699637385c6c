package config

import "testing"

func validConfig() Config {
	return Config{
		Addr:                    ":8080",
		DatabaseURL:             "postgres://localhost/payrun",
		DefaultPaymentFrequency: "Bi-Weekly",
		MaxBodyBytes:            1048576,
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cfg := validConfig()
	cfg.DatabaseURL = "  "
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected missing database url to fail")
	}

	cfg = validConfig()
	cfg.MaxBodyBytes = 100
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected tiny body limit to fail")
	}

	cfg = validConfig()
	cfg.DefaultPaymentFrequency = "Weekly"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected unsupported frequency to fail")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/payrun")
	cfg := Load()

	if cfg.Addr != ":8080" {
		t.Errorf("addr default: got %q", cfg.Addr)
	}
	if cfg.DefaultPaymentFrequency != "Bi-Weekly" {
		t.Errorf("frequency default: got %q", cfg.DefaultPaymentFrequency)
	}
	if !cfg.RunMigrations {
		t.Error("migrations should run by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}
