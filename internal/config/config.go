package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppInfo holds basic information about the application.
type AppInfo struct {
	Name        string `yaml:"name"`        // application name
	Version     string `yaml:"version"`     // application version
	Environment string `yaml:"environment"` // e.g. "development", "production"
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"` // listen address, e.g. ":8080"
}

// LoggerConfig holds the logger settings.
type LoggerConfig struct {
	Level string `yaml:"level"` // log level: "debug", "info", "warn", "error"
}

// RAGConfig holds the retrieval pipeline settings.
type RAGConfig struct {
	VectorStoreDir string `yaml:"vectorStoreDir"` // directory holding the persisted vector index
	UploadDir      string `yaml:"uploadDir"`      // directory where uploaded files are written before indexing
	ChunkSize      int    `yaml:"chunkSize"`      // maximum chunk size in characters
	ChunkOverlap   int    `yaml:"chunkOverlap"`   // overlap between consecutive chunks, must be < chunkSize
	TopK           int    `yaml:"topK"`           // number of chunks retrieved per query
}

// SessionConfig holds the chat history store settings.
type SessionConfig struct {
	DBPath    string `yaml:"dbPath"`    // path to the sqlite database file
	ExportDir string `yaml:"exportDir"` // directory for per-session JSON exports
}

// OpenAIConfig holds OpenAI model names. The API key comes from the environment.
type OpenAIConfig struct {
	ChatModel      string `yaml:"chatModel"`      // e.g. "gpt-4o-mini"
	EmbeddingModel string `yaml:"embeddingModel"` // e.g. "text-embedding-3-small"
}

// GroqConfig holds the Groq chat model name.
type GroqConfig struct {
	ChatModel string `yaml:"chatModel"` // e.g. "llama-3.1-8b-instant"
}

// GeminiConfig holds the Gemini chat model name.
type GeminiConfig struct {
	ChatModel string `yaml:"chatModel"` // e.g. "gemini-1.5-flash"
}

// OllamaConfig holds the local Ollama settings.
type OllamaConfig struct {
	BaseURL        string `yaml:"baseURL"`        // defaults to http://localhost:11434
	ChatModel      string `yaml:"chatModel"`      // e.g. "llama3"
	EmbeddingModel string `yaml:"embeddingModel"` // e.g. "nomic-embed-text"
}

// ProvidersConfig groups the model provider settings.
type ProvidersConfig struct {
	OpenAI OpenAIConfig `yaml:"openai"`
	Groq   GroqConfig   `yaml:"groq"`
	Gemini GeminiConfig `yaml:"gemini"`
	Ollama OllamaConfig `yaml:"ollama"`
}

// SearchConfig holds the web search settings.
type SearchConfig struct {
	NumResults int `yaml:"numResults"` // results requested per search
}

// VoiceConfig holds speech-to-text and text-to-speech settings.
type VoiceConfig struct {
	STTModel  string `yaml:"sttModel"`  // e.g. "whisper-1"
	TTSModel  string `yaml:"ttsModel"`  // e.g. "tts-1"
	TTSVoice  string `yaml:"ttsVoice"`  // e.g. "alloy"
	OutputDir string `yaml:"outputDir"` // directory for synthesized audio files
}

// Credentials holds API keys. They are never read from YAML; the values
// come from the environment (optionally loaded from a .env file).
type Credentials struct {
	OpenAIAPIKey string
	GroqAPIKey   string
	GeminiAPIKey string
	SerpAPIKey   string
	GoogleCSEKey string
	GoogleCX     string
}

// AppConfig is the root of the YAML configuration file.
type AppConfig struct {
	App         AppInfo         `yaml:"app"`
	Server      ServerConfig    `yaml:"server"`
	Logger      LoggerConfig    `yaml:"logger"`
	RAG         RAGConfig       `yaml:"rag"`
	Session     SessionConfig   `yaml:"session"`
	Providers   ProvidersConfig `yaml:"providers"`
	Search      SearchConfig    `yaml:"search"`
	Voice       VoiceConfig     `yaml:"voice"`
	Credentials Credentials     `yaml:"-"`
}

// LoadConfig loads and parses the YAML configuration file at the given
// path, fills in defaults, and reads credentials from the environment.
// A .env file in the working directory is loaded first when present.
func LoadConfig(path string) (*AppConfig, error) {
	// Missing .env is fine; real environments export the keys directly.
	_ = godotenv.Load()

	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(yamlFile, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	cfg.Credentials = credentialsFromEnv()
	return &cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.RAG.VectorStoreDir == "" {
		c.RAG.VectorStoreDir = "vector_store"
	}
	if c.RAG.UploadDir == "" {
		c.RAG.UploadDir = "uploaded_docs"
	}
	if c.RAG.ChunkSize == 0 {
		c.RAG.ChunkSize = 1000
	}
	if c.RAG.ChunkOverlap == 0 {
		c.RAG.ChunkOverlap = 200
	}
	if c.RAG.TopK == 0 {
		c.RAG.TopK = 4
	}
	if c.Session.DBPath == "" {
		c.Session.DBPath = "chat_memory.db"
	}
	if c.Session.ExportDir == "" {
		c.Session.ExportDir = "chat_backups"
	}
	if c.Providers.OpenAI.ChatModel == "" {
		c.Providers.OpenAI.ChatModel = "gpt-4o-mini"
	}
	if c.Providers.OpenAI.EmbeddingModel == "" {
		c.Providers.OpenAI.EmbeddingModel = "text-embedding-3-small"
	}
	if c.Providers.Groq.ChatModel == "" {
		c.Providers.Groq.ChatModel = "llama-3.1-8b-instant"
	}
	if c.Providers.Gemini.ChatModel == "" {
		c.Providers.Gemini.ChatModel = "gemini-1.5-flash"
	}
	if c.Providers.Ollama.ChatModel == "" {
		c.Providers.Ollama.ChatModel = "llama3"
	}
	if c.Providers.Ollama.EmbeddingModel == "" {
		c.Providers.Ollama.EmbeddingModel = "nomic-embed-text"
	}
	if c.Search.NumResults == 0 {
		c.Search.NumResults = 3
	}
	if c.Voice.STTModel == "" {
		c.Voice.STTModel = "whisper-1"
	}
	if c.Voice.TTSModel == "" {
		c.Voice.TTSModel = "tts-1"
	}
	if c.Voice.TTSVoice == "" {
		c.Voice.TTSVoice = "alloy"
	}
	if c.Voice.OutputDir == "" {
		c.Voice.OutputDir = os.TempDir()
	}
}

func credentialsFromEnv() Credentials {
	return Credentials{
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		GroqAPIKey:   os.Getenv("GROQ_API_KEY"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		SerpAPIKey:   os.Getenv("SERPAPI_KEY"),
		GoogleCSEKey: os.Getenv("GOOGLE_CSE_KEY"),
		GoogleCX:     os.Getenv("GOOGLE_CX"),
	}
}
