package config

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
)

func validConfig() Config {
	cfg := Config{HTTP: HTTPConfig{Port: 8000}}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 70000

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_WeightsMustSumToOne(t *testing.T) {
	cfg := validConfig()
	cfg.Recommend.Weights = recommendation.Weights{Genre: 0.5, Tag: 0.2, Collaborative: 0.2, Genome: 0.2}

	err := cfg.Validate()
	if !errors.Is(err, domain.ErrInvalidWeights) {
		t.Fatalf("expected ErrInvalidWeights, got %v", err)
	}
}

func TestValidate_NegativeWeight(t *testing.T) {
	cfg := validConfig()
	cfg.Recommend.Weights = recommendation.Weights{Genre: 1.2, Tag: -0.2}

	if err := cfg.Validate(); !errors.Is(err, domain.ErrInvalidWeights) {
		t.Fatalf("expected ErrInvalidWeights, got %v", err)
	}
}

func TestValidate_SampleFrac(t *testing.T) {
	for _, frac := range []float64{-0.1, 1.5} {
		cfg := validConfig()
		cfg.Recommend.SampleFrac = frac
		if err := cfg.Validate(); !errors.Is(err, domain.ErrInvalidSampleFrac) {
			t.Errorf("sample_frac=%v: expected ErrInvalidSampleFrac, got %v", frac, err)
		}
	}
}

func TestValidate_TopNBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Recommend.DefaultTopN = 10
	cfg.Recommend.MaxTopN = 5

	if err := cfg.Validate(); !errors.Is(err, domain.ErrInvalidTopN) {
		t.Fatalf("expected ErrInvalidTopN, got %v", err)
	}
}

func TestValidate_CacheDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.Addrs = []string{"localhost:6379"}
	cfg.Cache.Driver = "memcached"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown cache driver")
	}
	expected := `cache.driver must be "valkey" or "redis", got "memcached"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_CacheAddrsRequiredWhenEnabled(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Enabled = true

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing cache addrs")
	}

	cfg.Cache.Enabled = false
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled cache needs no addrs: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 8000 {
		t.Errorf("expected Port=8000, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Data.Dir != "data" {
		t.Errorf("expected Dir=data, got %q", cfg.Data.Dir)
	}
	if cfg.Data.GenomeScores != "genome-scores.csv" {
		t.Errorf("expected GenomeScores=genome-scores.csv, got %q", cfg.Data.GenomeScores)
	}
	if cfg.Recommend.DefaultTopN != 5 {
		t.Errorf("expected DefaultTopN=5, got %d", cfg.Recommend.DefaultTopN)
	}
	if cfg.Recommend.SampleFrac != 1 {
		t.Errorf("expected SampleFrac=1, got %v", cfg.Recommend.SampleFrac)
	}
	if cfg.Recommend.Weights != recommendation.DefaultWeights() {
		t.Errorf("expected default weights, got %+v", cfg.Recommend.Weights)
	}
	if cfg.Cache.Driver != "valkey" {
		t.Errorf("expected Driver=valkey, got %q", cfg.Cache.Driver)
	}
	if cfg.Cache.TTLSec != 3600 {
		t.Errorf("expected TTLSec=3600, got %d", cfg.Cache.TTLSec)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 9000, ReadTimeoutSec: 30},
		Data:      DataConfig{Dir: "/srv/ml-25m", Ratings: "ratings_small.csv"},
		Recommend: RecommendConfig{DefaultTopN: 10, SampleFrac: 0.1, Weights: recommendation.Weights{Genre: 1}},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 9000 {
		t.Errorf("expected Port=9000, got %d", cfg.HTTP.Port)
	}
	if cfg.Data.Ratings != "ratings_small.csv" {
		t.Errorf("expected Ratings=ratings_small.csv, got %q", cfg.Data.Ratings)
	}
	if cfg.Data.Movies != "movies.csv" {
		t.Errorf("expected Movies=movies.csv, got %q", cfg.Data.Movies)
	}
	if cfg.Recommend.SampleFrac != 0.1 {
		t.Errorf("expected SampleFrac=0.1, got %v", cfg.Recommend.SampleFrac)
	}
	if cfg.Recommend.Weights.Genre != 1 {
		t.Errorf("expected custom weights kept, got %+v", cfg.Recommend.Weights)
	}
}

func TestParse_ExpandsEnvVars(t *testing.T) {
	t.Setenv("MOVIEREC_DATA_DIR", "/data/ml-latest")

	cfg, err := Parse([]byte(`
http:
  port: ${MOVIEREC_PORT:-8081}
data:
  dir: ${MOVIEREC_DATA_DIR}
recommend:
  weights:
    genre: 0.25
    tag: 0.25
    collaborative: 0.25
    genome: 0.25
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 8081 {
		t.Errorf("expected default port 8081, got %d", cfg.HTTP.Port)
	}
	if cfg.Data.Dir != "/data/ml-latest" {
		t.Errorf("expected expanded dir, got %q", cfg.Data.Dir)
	}
	if cfg.Recommend.Weights.Tag != 0.25 {
		t.Errorf("expected tag weight 0.25, got %v", cfg.Recommend.Weights.Tag)
	}
}

func TestParse_InvalidWeightsFail(t *testing.T) {
	_, err := Parse([]byte(`
recommend:
  weights:
    genre: 0.9
    tag: 0.9
`))
	if !errors.Is(err, domain.ErrInvalidWeights) {
		t.Fatalf("expected ErrInvalidWeights, got %v", err)
	}
}

func TestLoad_LocalConfig(t *testing.T) {
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Recommend.DefaultTopN != 5 {
		t.Errorf("expected DefaultTopN=5, got %d", cfg.Recommend.DefaultTopN)
	}
}
