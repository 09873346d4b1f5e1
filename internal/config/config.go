package config

import (
	"fmt"

	"github.com/joho/godotenv"
)

type Config struct {
	Mode      string
	Server    ServerConfig
	Groq      GroqConfig
	Ollama    OllamaConfig
	Retrieval RetrievalConfig
	Storage   StorageConfig
}

// ServerConfig holds the HTTP listen ports and the optional bearer token
// guarding the /v1 API. APIToken is a secret: like the Groq key it is never
// written to the plain config backend. An empty token leaves the API open,
// which is the expected setup for a widget served on localhost.
type ServerConfig struct {
	Port     int
	MCPPort  int
	APIToken string
}

// GroqConfig drives the OpenAI-style chat-completions backend. APIKey is a
// secret and is never stored in the plain config backend: it comes from the
// environment, an .env file, or the platform secret store.
type GroqConfig struct {
	Endpoint string
	APIKey   string
	Model    string
}

type OllamaConfig struct {
	BaseURL    string
	Model      string
	EmbedModel string
}

type RetrievalConfig struct {
	TopK           int
	EmbeddingsPath string
}

type StorageConfig struct {
	DataDir string
}

// Valid chat modes. An unavailable mode (e.g. groq without an API key)
// degrades to rule-based at wiring time rather than failing here.
const (
	ModeRuleBased = "rule-based"
	ModeGroq      = "groq"
	ModeOllama    = "ollama"
)

func defaults() Config {
	return Config{
		Mode: ModeRuleBased,
		Server: ServerConfig{
			Port:    4000,
			MCPPort: 4001,
		},
		Groq: GroqConfig{
			Endpoint: "https://api.groq.com/openai/v1/chat/completions",
			Model:    "llama-3.1-8b-instant",
		},
		Ollama: OllamaConfig{
			BaseURL:    "http://localhost:11434",
			Model:      "llama3.2",
			EmbedModel: "nomic-embed-text",
		},
		Retrieval: RetrievalConfig{
			TopK: 3,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
	}
}

// Load reads configuration in layers: built-in defaults, the platform
// backend, a .env file in the working directory, then CAMPUSBOT_*
// environment variables. Secrets (the Groq API key and the server API
// token) additionally fall back to the platform secret store.
//
// On macOS the backend is UserDefaults (domain: com.campusbot.app) and
// secrets fall back to macOS Keychain. On Linux the backend is a JSON file
// at $XDG_CONFIG_HOME/campusbot/config.json.
func Load() (Config, error) {
	// Populates the process environment from ./.env without overriding
	// variables that are already set. A missing file is not an error.
	_ = godotenv.Load()
	return loadWith(newPlatformBackend(), keychainReader{})
}

// keychain abstracts secret-store access for testing.
type keychain interface {
	Get(service, account string) (string, error)
}

func loadWith(b ConfigBackend, kc keychain) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.Groq.APIKey == "" {
		if key, err := kc.Get("campusbot", "groq_api_key"); err == nil && key != "" {
			cfg.Groq.APIKey = key
		}
	}

	if cfg.Server.APIToken == "" {
		if token, err := kc.Get("campusbot", "api_token"); err == nil && token != "" {
			cfg.Server.APIToken = token
		}
	}

	switch cfg.Mode {
	case ModeRuleBased, ModeGroq, ModeOllama:
	default:
		return Config{}, fmt.Errorf("invalid chat mode %q (valid: %s, %s, %s)",
			cfg.Mode, ModeRuleBased, ModeGroq, ModeOllama)
	}

	return cfg, nil
}
