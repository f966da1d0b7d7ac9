package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment" yaml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server" yaml:"server"`
	Storage     StorageConfig   `toml:"storage" yaml:"storage"`
	Logging     LoggingConfig   `toml:"logging" yaml:"logging"`
	Retrieval   RetrievalConfig `toml:"retrieval" yaml:"retrieval"`
	Chat        ChatConfig      `toml:"chat" yaml:"chat"`
	Scraper     ScraperConfig   `toml:"scraper" yaml:"scraper"`
	Gemini      GeminiConfig    `toml:"gemini" yaml:"gemini"`
	Claude      ClaudeConfig    `toml:"claude" yaml:"claude"`
	LLM         LLMConfig       `toml:"llm" yaml:"llm"`
}

type ServerConfig struct {
	Port int    `toml:"port" yaml:"port"`
	Host string `toml:"host" yaml:"host"`
}

type StorageConfig struct {
	Badger    BadgerConfig    `toml:"badger" yaml:"badger"`
	Documents DocumentsConfig `toml:"documents" yaml:"documents"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" yaml:"path"`                         // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup" yaml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// DocumentsConfig configures the per-session document directories
type DocumentsConfig struct {
	Path          string `toml:"path" yaml:"path"`                       // Root directory for uploaded/scraped files
	MaxUploadSize int64  `toml:"max_upload_size" yaml:"max_upload_size"` // Per-file upload cap in bytes
}

type LoggingConfig struct {
	Level      string   `toml:"level" yaml:"level"`             // "debug", "info", "warn", "error"
	Output     []string `toml:"output" yaml:"output"`           // "stdout", "file"
	TimeFormat string   `toml:"time_format" yaml:"time_format"` // Time format for logs (default: "15:04:05")
}

// RetrievalConfig controls chunking and similarity search for the
// per-session index that is rebuilt on every answer-generation call
type RetrievalConfig struct {
	ChunkSize    int `toml:"chunk_size" yaml:"chunk_size"`       // Target chunk size in characters (default: 1000)
	ChunkOverlap int `toml:"chunk_overlap" yaml:"chunk_overlap"` // Overlap between adjacent chunks (default: 200)
	TopK         int `toml:"top_k" yaml:"top_k"`                 // Chunks retrieved per query (default: 4)
}

// ChatConfig controls the conversation controller
type ChatConfig struct {
	AnswerTimeout string `toml:"answer_timeout" yaml:"answer_timeout"` // Wall-clock bound on one model call (default: "60s")
}

// ScraperConfig contains web-link scraping configuration
type ScraperConfig struct {
	UserAgent      string  `toml:"user_agent" yaml:"user_agent"`
	RequestTimeout string  `toml:"request_timeout" yaml:"request_timeout"` // HTTP request timeout as duration string (default: "10s")
	MaxBodySize    int64   `toml:"max_body_size" yaml:"max_body_size"`     // Maximum response body size in bytes
	RequestsPerSec float64 `toml:"requests_per_sec" yaml:"requests_per_sec"`
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key" yaml:"api_key"`
	Model       string  `toml:"model" yaml:"model"`                     // Chat model (default: "gemini-2.0-flash")
	EmbedModel  string  `toml:"embed_model" yaml:"embed_model"`         // Embedding model (default: "gemini-embedding-001")
	EmbedDim    int     `toml:"embed_dimension" yaml:"embed_dimension"` // Embedding output dimensionality (default: 768)
	Timeout     string  `toml:"timeout" yaml:"timeout"`                 // Provider call timeout as duration string (default: "5m")
	Temperature float32 `toml:"temperature" yaml:"temperature"`         // Chat completion temperature (default: 0.7)
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key" yaml:"api_key"`
	Model       string  `toml:"model" yaml:"model"`             // Chat model (default: "claude-haiku-3-5-20241022")
	MaxTokens   int     `toml:"max_tokens" yaml:"max_tokens"`   // Maximum tokens in response (default: 8192)
	Timeout     string  `toml:"timeout" yaml:"timeout"`         // Provider call timeout as duration string (default: "5m")
	Temperature float32 `toml:"temperature" yaml:"temperature"` // Completion temperature (default: 0.7)
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig selects the chat provider. Embeddings always route to Gemini
// since Claude exposes no embedding API.
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider" yaml:"default_provider"` // "gemini" or "claude" (default: "gemini")
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8000,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/sessions",
			},
			Documents: DocumentsConfig{
				Path:          "./data/documents",
				MaxUploadSize: 10 * 1024 * 1024, // 10MB
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Retrieval: RetrievalConfig{
			ChunkSize:    1000,
			ChunkOverlap: 200,
			TopK:         4,
		},
		Chat: ChatConfig{
			AnswerTimeout: "60s",
		},
		Scraper: ScraperConfig{
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			RequestTimeout: "10s",
			MaxBodySize:    10 * 1024 * 1024,
			RequestsPerSec: 2,
		},
		Gemini: GeminiConfig{
			APIKey:      "",
			Model:       "gemini-2.0-flash",
			EmbedModel:  "gemini-embedding-001",
			EmbedDim:    768,
			Timeout:     "5m",
			Temperature: 0.7,
		},
		Claude: ClaudeConfig{
			APIKey:      "",
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   8192,
			Timeout:     "5m",
			Temperature: 0.7,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files; later files
// override earlier ones. TOML or YAML is selected by file extension.
// Priority: CLI flags > environment variables > last file > ... > defaults.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, config)
		default:
			err = toml.Unmarshal(data, config)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("SERMO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("SERMO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("SERMO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("SERMO_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if docsPath := os.Getenv("SERMO_DOCUMENTS_PATH"); docsPath != "" {
		config.Storage.Documents.Path = docsPath
	}
	if maxUpload := os.Getenv("SERMO_MAX_UPLOAD_SIZE"); maxUpload != "" {
		if m, err := strconv.ParseInt(maxUpload, 10, 64); err == nil {
			config.Storage.Documents.MaxUploadSize = m
		}
	}

	// Logging configuration
	if level := os.Getenv("SERMO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("SERMO_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Retrieval configuration
	if chunkSize := os.Getenv("SERMO_RETRIEVAL_CHUNK_SIZE"); chunkSize != "" {
		if cs, err := strconv.Atoi(chunkSize); err == nil {
			config.Retrieval.ChunkSize = cs
		}
	}
	if overlap := os.Getenv("SERMO_RETRIEVAL_CHUNK_OVERLAP"); overlap != "" {
		if co, err := strconv.Atoi(overlap); err == nil {
			config.Retrieval.ChunkOverlap = co
		}
	}
	if topK := os.Getenv("SERMO_RETRIEVAL_TOP_K"); topK != "" {
		if k, err := strconv.Atoi(topK); err == nil {
			config.Retrieval.TopK = k
		}
	}

	// Chat configuration
	if timeout := os.Getenv("SERMO_CHAT_ANSWER_TIMEOUT"); timeout != "" {
		if _, err := time.ParseDuration(timeout); err == nil {
			config.Chat.AnswerTimeout = timeout
		}
	}

	// Scraper configuration
	if userAgent := os.Getenv("SERMO_SCRAPER_USER_AGENT"); userAgent != "" {
		config.Scraper.UserAgent = userAgent
	}
	if requestTimeout := os.Getenv("SERMO_SCRAPER_REQUEST_TIMEOUT"); requestTimeout != "" {
		if _, err := time.ParseDuration(requestTimeout); err == nil {
			config.Scraper.RequestTimeout = requestTimeout
		}
	}
	if maxBodySize := os.Getenv("SERMO_SCRAPER_MAX_BODY_SIZE"); maxBodySize != "" {
		if mbs, err := strconv.ParseInt(maxBodySize, 10, 64); err == nil {
			config.Scraper.MaxBodySize = mbs
		}
	}

	// Gemini configuration
	if apiKey := os.Getenv("SERMO_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	} else if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("SERMO_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if embedModel := os.Getenv("SERMO_GEMINI_EMBED_MODEL"); embedModel != "" {
		config.Gemini.EmbedModel = embedModel
	}
	if embedDim := os.Getenv("SERMO_GEMINI_EMBED_DIMENSION"); embedDim != "" {
		if d, err := strconv.Atoi(embedDim); err == nil {
			config.Gemini.EmbedDim = d
		}
	}
	if temperature := os.Getenv("SERMO_GEMINI_TEMPERATURE"); temperature != "" {
		if t, err := strconv.ParseFloat(temperature, 32); err == nil {
			config.Gemini.Temperature = float32(t)
		}
	}

	// Claude configuration. SERMO_ prefix takes priority over the
	// conventional ANTHROPIC_API_KEY.
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("SERMO_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if model := os.Getenv("SERMO_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}
	if maxTokens := os.Getenv("SERMO_CLAUDE_MAX_TOKENS"); maxTokens != "" {
		if mt, err := strconv.Atoi(maxTokens); err == nil {
			config.Claude.MaxTokens = mt
		}
	}

	// LLM provider configuration
	if provider := os.Getenv("SERMO_LLM_DEFAULT_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// AnswerTimeoutDuration parses the configured answer timeout, falling back
// to 60 seconds on a malformed value.
func (c *Config) AnswerTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Chat.AnswerTimeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// RequestTimeoutDuration parses the configured scraper request timeout,
// falling back to 10 seconds on a malformed value.
func (c *ScraperConfig) RequestTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
