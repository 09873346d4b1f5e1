package config

import (
	"testing"
)

// mapBackend is an in-memory ConfigBackend for tests.
type mapBackend struct {
	strings map[string]string
	ints    map[string]int
}

func (b *mapBackend) GetString(key string) (string, bool, error) {
	v, ok := b.strings[key]
	return v, ok, nil
}

func (b *mapBackend) GetInt(key string) (int, bool, error) {
	v, ok := b.ints[key]
	return v, ok, nil
}

func (b *mapBackend) SetString(key, val string) error  { return nil }
func (b *mapBackend) SetInt(key string, val int) error { return nil }
func (b *mapBackend) Delete(key string) error          { return nil }

// mockKeychain is a test double for the secret store, keyed by account.
type mockKeychain map[string]string

func (m mockKeychain) Get(service, account string) (string, error) {
	return m[account], nil
}

func TestDefaults(t *testing.T) {
	cfg, err := loadWith(&mapBackend{}, mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Mode != ModeRuleBased {
		t.Errorf("Mode = %q, want %q", cfg.Mode, ModeRuleBased)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("Server.Port = %d, want 4000", cfg.Server.Port)
	}
	if cfg.Server.MCPPort != 4001 {
		t.Errorf("Server.MCPPort = %d, want 4001", cfg.Server.MCPPort)
	}
	if cfg.Ollama.BaseURL != "http://localhost:11434" {
		t.Errorf("Ollama.BaseURL = %q", cfg.Ollama.BaseURL)
	}
	if cfg.Ollama.EmbedModel != "nomic-embed-text" {
		t.Errorf("Ollama.EmbedModel = %q", cfg.Ollama.EmbedModel)
	}
	if cfg.Retrieval.TopK != 3 {
		t.Errorf("Retrieval.TopK = %d, want 3", cfg.Retrieval.TopK)
	}
	if cfg.Groq.APIKey != "" {
		t.Errorf("Groq.APIKey = %q, want empty (no embedded credentials)", cfg.Groq.APIKey)
	}
}

func TestBackendValuesOverrideDefaults(t *testing.T) {
	b := &mapBackend{
		strings: map[string]string{
			"mode":         ModeOllama,
			"ollama.model": "mistral",
		},
		ints: map[string]int{
			"server.port":     8080,
			"retrieval.top_k": 5,
		},
	}

	cfg, err := loadWith(b, mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Mode != ModeOllama {
		t.Errorf("Mode = %q, want %q", cfg.Mode, ModeOllama)
	}
	if cfg.Ollama.Model != "mistral" {
		t.Errorf("Ollama.Model = %q, want mistral", cfg.Ollama.Model)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Retrieval.TopK != 5 {
		t.Errorf("Retrieval.TopK = %d, want 5", cfg.Retrieval.TopK)
	}
}

func TestEnvOverridesBackend(t *testing.T) {
	b := &mapBackend{strings: map[string]string{"mode": ModeOllama}}
	t.Setenv("CAMPUSBOT_MODE", ModeGroq)
	t.Setenv("GROQ_API_KEY", "env-key")

	cfg, err := loadWith(b, mockKeychain{"groq_api_key": "keychain-key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Mode != ModeGroq {
		t.Errorf("Mode = %q, want env override %q", cfg.Mode, ModeGroq)
	}
	if cfg.Groq.APIKey != "env-key" {
		t.Errorf("Groq.APIKey = %q, want env value to win over keychain", cfg.Groq.APIKey)
	}
}

func TestKeychainFallbackForAPIKey(t *testing.T) {
	cfg, err := loadWith(&mapBackend{}, mockKeychain{"groq_api_key": "keychain-key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Groq.APIKey != "keychain-key" {
		t.Errorf("Groq.APIKey = %q, want keychain fallback", cfg.Groq.APIKey)
	}
}

func TestAPITokenFromEnv(t *testing.T) {
	t.Setenv("CAMPUSBOT_API_TOKEN", "env-token")

	cfg, err := loadWith(&mapBackend{}, mockKeychain{"api_token": "keychain-token"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.APIToken != "env-token" {
		t.Errorf("Server.APIToken = %q, want env value to win over keychain", cfg.Server.APIToken)
	}
}

func TestKeychainFallbackForAPIToken(t *testing.T) {
	cfg, err := loadWith(&mapBackend{}, mockKeychain{"api_token": "keychain-token"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.APIToken != "keychain-token" {
		t.Errorf("Server.APIToken = %q, want keychain fallback", cfg.Server.APIToken)
	}
}

func TestInvalidModeRejected(t *testing.T) {
	b := &mapBackend{strings: map[string]string{"mode": "telepathy"}}
	if _, err := loadWith(b, mockKeychain{}); err == nil {
		t.Fatal("expected error for invalid mode")
	}
}

func TestSecretsExcludedFromShowAll(t *testing.T) {
	cfg := defaults()
	cfg.Groq.APIKey = "s3cret"
	cfg.Server.APIToken = "t0ken"
	for _, info := range ShowAll(cfg) {
		if info.Key == "groq.api_key" || info.Key == "server.api_token" {
			t.Fatalf("secret key listed by ShowAll: %+v", info)
		}
		if info.Value == "s3cret" || info.Value == "t0ken" {
			t.Fatalf("secret value leaked via ShowAll: %+v", info)
		}
	}
}

func TestUnsetKeyValidation(t *testing.T) {
	if err := UnsetKey("no.such.key"); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := UnsetKey("groq.api_key"); err == nil {
		t.Error("expected error for secret key")
	}
}
