package model

import "time"

// Config is the complete runtime configuration.
// Hierarchy: CLI flags > CLAIMCHECK_* env > ~/.claimcheck/config.yaml > defaults.
type Config struct {
	Search      SearchConfig      `yaml:"search" mapstructure:"search"`
	Retrieval   RetrievalConfig   `yaml:"retrieval" mapstructure:"retrieval"`
	Decision    DecisionConfig    `yaml:"decision" mapstructure:"decision"`
	Extract     ExtractConfig     `yaml:"extract" mapstructure:"extract"`
	ML          MLConfig          `yaml:"ml" mapstructure:"ml"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	RateLimit   RateLimitConfig   `yaml:"ratelimit" mapstructure:"ratelimit"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// SearchConfig configures the search capability
type SearchConfig struct {
	URL        string        `yaml:"url" mapstructure:"url"`                 // SearxNG-compatible endpoint
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`         // Hard timeout per search call
	MaxResults int           `yaml:"max_results" mapstructure:"max_results"` // Cap per query variant
	Language   string        `yaml:"language" mapstructure:"language"`
}

// RetrievalConfig configures candidate passage retrieval and ranking
type RetrievalConfig struct {
	MinParagraphWords int    `yaml:"min_paragraph_words" mapstructure:"min_paragraph_words"`
	MaxQueries        int    `yaml:"max_queries" mapstructure:"max_queries"`       // Query variants per sub-claim
	RecallTopN        int    `yaml:"recall_top_n" mapstructure:"recall_top_n"`     // Stage A shortlist size
	PrecisionTopM     int    `yaml:"precision_top_m" mapstructure:"precision_top_m"` // Stage B keep per page
	WindowWords       int    `yaml:"window_words" mapstructure:"window_words"`     // Context window budget
	FallbackDomain    string `yaml:"fallback_domain" mapstructure:"fallback_domain"`
}

// DecisionConfig configures evidence aggregation
type DecisionConfig struct {
	SupportThreshold    float64  `yaml:"support_threshold" mapstructure:"support_threshold"`
	ContradictThreshold float64  `yaml:"contradict_threshold" mapstructure:"contradict_threshold"`
	Margin              float64  `yaml:"margin" mapstructure:"margin"`
	MinSources          int      `yaml:"min_sources" mapstructure:"min_sources"`
	TrustedDomains      []string `yaml:"trusted_domains" mapstructure:"trusted_domains"`
	TrustBoost          float64  `yaml:"trust_boost" mapstructure:"trust_boost"`
}

// ExtractConfig configures claim extraction
type ExtractConfig struct {
	MaxClaims     int `yaml:"max_claims" mapstructure:"max_claims"`
	MaxInputChars int `yaml:"max_input_chars" mapstructure:"max_input_chars"` // Fallback truncation length
}

// MLConfig configures the embedding/rerank/entailment capabilities
type MLConfig struct {
	Provider        string `yaml:"provider" mapstructure:"provider"` // openai, inference, ollama
	APIKey          string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL         string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	EmbeddingModel  string `yaml:"embedding_model" mapstructure:"embedding_model"`
	EntailmentModel string `yaml:"entailment_model" mapstructure:"entailment_model"`
	RerankURL       string `yaml:"rerank_url,omitempty" mapstructure:"rerank_url"` // Cross-encoder service; empty disables Stage B
	Timeout         int    `yaml:"timeout" mapstructure:"timeout"`                 // Seconds
	HTTPProxy       string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy      string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy         string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// HTTPConfig configures outbound page fetching
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig configures the in-memory page-text cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// RateLimitConfig configures per-domain fetch rate limiting
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"rps" mapstructure:"rps"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// ConcurrencyConfig configures pipeline fan-out
type ConcurrencyConfig struct {
	SubClaimWorkers int `yaml:"subclaim_workers" mapstructure:"subclaim_workers"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr        string   `yaml:"addr" mapstructure:"addr"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// OutputConfig controls CLI output behavior
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			URL:        "http://localhost:8080/search",
			Timeout:    15 * time.Second,
			MaxResults: 5,
			Language:   "en",
		},
		Retrieval: RetrievalConfig{
			MinParagraphWords: 12,
			MaxQueries:        4,
			RecallTopN:        10,
			PrecisionTopM:     3,
			WindowWords:       450,
			FallbackDomain:    "en.wikipedia.org",
		},
		Decision: DecisionConfig{
			SupportThreshold:    0.60,
			ContradictThreshold: 0.60,
			Margin:              0.10,
			MinSources:          1,
			TrustedDomains: []string{
				"wikipedia.org",
				"britannica.com",
				"reuters.com",
				"apnews.com",
				"nature.com",
				"gov",
				"edu",
			},
			TrustBoost: 1.15,
		},
		Extract: ExtractConfig{
			MaxClaims:     8,
			MaxInputChars: 280,
		},
		ML: MLConfig{
			Provider:        "inference",
			BaseURL:         "http://localhost:8501",
			EmbeddingModel:  "sentence-transformers/all-MiniLM-L6-v2",
			EntailmentModel: "microsoft/deberta-v3-base-mnli",
			Timeout:         30,
		},
		HTTP: HTTPConfig{
			Timeout:      20 * time.Second,
			UserAgent:    "Claimcheck/0.1 (+https://github.com/veracityhq/claimcheck)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Concurrency: ConcurrencyConfig{
			SubClaimWorkers: 4,
		},
		Server: ServerConfig{
			Addr:        ":8000",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Output: OutputConfig{},
	}
}
