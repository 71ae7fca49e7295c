package config

import "testing"

func validConfig() Config {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_TopKBoundsOrdering(t *testing.T) {
	cfg := validConfig()
	cfg.Search.MinTopK = 10
	cfg.Search.MaxTopK = 5

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for min_top_k > max_top_k")
	}
}

func TestValidate_DefaultTopKOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Search.DefaultTopK = 20

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for default_top_k outside [min, max]")
	}
}

func TestValidate_NegativeWeight(t *testing.T) {
	cfg := validConfig()
	cfg.Search.Weights.Category = -0.1

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative weight")
	}
}

func TestApplyDefaults_Search(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Search.DefaultTopK != 8 {
		t.Errorf("DefaultTopK = %d, want 8", cfg.Search.DefaultTopK)
	}
	if cfg.Search.MinTopK != 3 || cfg.Search.MaxTopK != 15 {
		t.Errorf("top_k range = [%d, %d], want [3, 15]", cfg.Search.MinTopK, cfg.Search.MaxTopK)
	}
	if cfg.Search.TierTimeoutSec != 3 {
		t.Errorf("TierTimeoutSec = %d, want 3", cfg.Search.TierTimeoutSec)
	}

	w := cfg.Search.Weights
	if w.Similarity != 0.60 || w.Category != 0.30 || w.Popularity != 0.10 {
		t.Errorf("default weights = %+v, want 0.60/0.30/0.10", w)
	}
}

func TestApplyDefaults_PreservesWeightOverrides(t *testing.T) {
	cfg := Config{
		Search: SearchConfig{
			Weights: WeightsConfig{Similarity: 0.6, Category: 0.2, Popularity: 0.2},
		},
	}
	cfg.ApplyDefaults()

	if cfg.Search.Weights.Category != 0.2 {
		t.Errorf("Category = %g, override was dropped", cfg.Search.Weights.Category)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TROVA_TEST_VAR", "secret")

	out := expandEnvVars([]byte("api_key: ${TROVA_TEST_VAR}"))
	if string(out) != "api_key: secret" {
		t.Errorf("expandEnvVars = %q", out)
	}

	out = expandEnvVars([]byte("model: ${TROVA_UNSET_VAR:-text-embedding-3-small}"))
	if string(out) != "model: text-embedding-3-small" {
		t.Errorf("expandEnvVars with default = %q", out)
	}
}
