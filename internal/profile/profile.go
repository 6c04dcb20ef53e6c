package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// Driver is the vector store driver (sqlite or postgres)
	Driver string
	// DSN points to the persisted index. For sqlite this is the index
	// file path; for postgres a connection string.
	DSN string
	// Version is the current version of server
	Version string

	// Collection is the catalog collection name inside the index.
	Collection string // ANIMESENSE_COLLECTION (default: anime_embeddings)
	// CSVPath is the catalog CSV consumed by the offline index build.
	CSVPath string // ANIMESENSE_CSV_PATH (default: data/Anime_Cleaned.csv)

	// LLM configuration
	LLMAPIKey      string  // ANIMESENSE_LLM_API_KEY (required)
	LLMBaseURL     string  // ANIMESENSE_LLM_BASE_URL (default: https://api.groq.com/openai/v1)
	LLMModel       string  // ANIMESENSE_LLM_MODEL (default: llama-3.3-70b-versatile)
	LLMTemperature float32 // ANIMESENSE_LLM_TEMPERATURE (default: 0)

	// Embedding configuration
	EmbeddingAPIKey  string // ANIMESENSE_EMBEDDING_API_KEY (falls back to LLM key)
	EmbeddingBaseURL string // ANIMESENSE_EMBEDDING_BASE_URL (default: https://api.openai.com/v1)
	EmbeddingModel   string // ANIMESENSE_EMBEDDING_MODEL (default: text-embedding-3-small)

	// Retrieval and index build configuration
	SearchK      int // ANIMESENSE_SEARCH_K (default: 10)
	ChunkSize    int // ANIMESENSE_CHUNK_SIZE (default: 1000)
	ChunkOverlap int // ANIMESENSE_CHUNK_OVERLAP (default: 0)
	BatchSize    int // ANIMESENSE_BATCH_SIZE (default: 100)

	// RequestTimeout bounds one retrieval + generation sequence.
	RequestTimeout time.Duration // ANIMESENSE_REQUEST_TIMEOUT (default: 30s)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// FromEnv loads configuration from ANIMESENSE_* environment variables.
func (p *Profile) FromEnv() {
	p.Driver = getEnvOrDefault("ANIMESENSE_DRIVER", "sqlite")
	p.DSN = os.Getenv("ANIMESENSE_DSN")
	p.Collection = getEnvOrDefault("ANIMESENSE_COLLECTION", "anime_embeddings")
	p.CSVPath = getEnvOrDefault("ANIMESENSE_CSV_PATH", filepath.Join("data", "Anime_Cleaned.csv"))

	p.LLMAPIKey = os.Getenv("ANIMESENSE_LLM_API_KEY")
	p.LLMBaseURL = getEnvOrDefault("ANIMESENSE_LLM_BASE_URL", "https://api.groq.com/openai/v1")
	p.LLMModel = getEnvOrDefault("ANIMESENSE_LLM_MODEL", "llama-3.3-70b-versatile")
	p.LLMTemperature = 0
	if value := os.Getenv("ANIMESENSE_LLM_TEMPERATURE"); value != "" {
		if f, err := strconv.ParseFloat(value, 32); err == nil {
			p.LLMTemperature = float32(f)
		}
	}

	p.EmbeddingAPIKey = getEnvOrDefault("ANIMESENSE_EMBEDDING_API_KEY", p.LLMAPIKey)
	p.EmbeddingBaseURL = getEnvOrDefault("ANIMESENSE_EMBEDDING_BASE_URL", "https://api.openai.com/v1")
	p.EmbeddingModel = getEnvOrDefault("ANIMESENSE_EMBEDDING_MODEL", "text-embedding-3-small")

	p.SearchK = getIntEnvOrDefault("ANIMESENSE_SEARCH_K", 10)
	p.ChunkSize = getIntEnvOrDefault("ANIMESENSE_CHUNK_SIZE", 1000)
	p.ChunkOverlap = getIntEnvOrDefault("ANIMESENSE_CHUNK_OVERLAP", 0)
	p.BatchSize = getIntEnvOrDefault("ANIMESENSE_BATCH_SIZE", 100)

	p.RequestTimeout = 30 * time.Second
	if value := os.Getenv("ANIMESENSE_REQUEST_TIMEOUT"); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			p.RequestTimeout = d
		}
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

// Validate normalizes the profile and enforces required configuration.
// A missing LLM API key is fatal at startup.
func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}

	if p.LLMAPIKey == "" {
		return errors.New("ANIMESENSE_LLM_API_KEY must be set")
	}

	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unknown store driver %q: only 'sqlite' and 'postgres' are supported", p.Driver)
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir

	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("animesense_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("ANIMESENSE_DSN must be set for the postgres driver")
	}

	if p.SearchK <= 0 {
		p.SearchK = 10
	}
	if p.ChunkSize <= 0 {
		p.ChunkSize = 1000
	}
	if p.ChunkOverlap < 0 || p.ChunkOverlap >= p.ChunkSize {
		p.ChunkOverlap = 0
	}
	if p.BatchSize <= 0 {
		p.BatchSize = 100
	}
	if p.RequestTimeout <= 0 {
		p.RequestTimeout = 30 * time.Second
	}

	return nil
}
