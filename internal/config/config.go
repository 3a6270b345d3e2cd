package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"notesplit/internal/application"
)

const (
	DefaultVaultPath     = "~/Obsidian/ZettleKasten"
	DefaultNoteExtension = ".md"
	DefaultMaxSegments   = 5
	DefaultProvider      = "groq"
	DefaultMaxTokens     = 8192
	DefaultIndexFile     = ".notesplit/index.db"
)

// DefaultModels maps each provider to the model used when none is configured
var DefaultModels = map[string]string{
	"groq":       "openai/gpt-oss-20b",
	"openai":     "gpt-4o-mini",
	"anthropic":  "claude-3-5-haiku-latest",
	"gemini":     "gemini-2.0-flash",
	"claude-cli": "haiku",
}

// Config holds everything a run needs
type Config struct {
	NotePath      string    `yaml:"note"`
	VaultPath     string    `yaml:"vault"`
	NoteExtension string    `yaml:"note_extension"`
	MaxSegments   int       `yaml:"max_segments"`
	LockDocument  bool      `yaml:"lock_document"`
	IndexPath     string    `yaml:"index"`
	LLM           LLMConfig `yaml:"llm"`
}

// LLMConfig selects the oracle backend
type LLMConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	MaxTokens int    `yaml:"max_tokens"`
	Timeout   string `yaml:"timeout"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		VaultPath:     DefaultVaultPath,
		NoteExtension: DefaultNoteExtension,
		MaxSegments:   DefaultMaxSegments,
		LockDocument:  true,
		LLM: LLMConfig{
			Provider:  DefaultProvider,
			MaxTokens: DefaultMaxTokens,
		},
	}
}

// Path returns the config file location, honoring NOTESPLIT_CONFIG
func Path() string {
	if env := os.Getenv("NOTESPLIT_CONFIG"); env != "" {
		return env
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "notesplit.yaml"
	}
	return filepath.Join(dir, "notesplit", "config.yaml")
}

// Load reads a YAML config file on top of the defaults. A missing file is
// not an error. Environment variables override both.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies NOTESPLIT_* environment variables
func (c *Config) applyEnvOverrides() error {
	if env := os.Getenv("NOTESPLIT_NOTE"); env != "" {
		c.NotePath = env
	}
	if env := os.Getenv("NOTESPLIT_VAULT"); env != "" {
		c.VaultPath = env
	}
	if env := os.Getenv("NOTESPLIT_MAX_SEGMENTS"); env != "" {
		n, err := strconv.Atoi(env)
		if err != nil {
			return fmt.Errorf("invalid NOTESPLIT_MAX_SEGMENTS %q: %w", env, err)
		}
		c.MaxSegments = n
	}
	if env := os.Getenv("NOTESPLIT_PROVIDER"); env != "" {
		c.LLM.Provider = env
	}
	if env := os.Getenv("NOTESPLIT_MODEL"); env != "" {
		c.LLM.Model = env
	}
	if env := os.Getenv("NOTESPLIT_INDEX"); env != "" {
		c.IndexPath = env
	}
	return nil
}

// Validate checks the configuration before a run. Failures are
// *application.ValidationError.
func (c *Config) Validate() error {
	if err := application.ValidateRequired("vaultPath", c.VaultPath); err != nil {
		return err
	}
	if err := application.ValidatePositive("maxSegments", c.MaxSegments); err != nil {
		return err
	}
	if _, ok := DefaultModels[c.Provider()]; !ok {
		return &application.ValidationError{Field: "provider", Message: fmt.Sprintf("unknown provider %q", c.LLM.Provider)}
	}
	if _, err := c.OracleTimeout(); err != nil {
		return &application.ValidationError{Field: "timeout", Message: err.Error()}
	}
	return nil
}

// OracleTimeout returns the deadline for a single oracle call. Zero means
// the transport default applies.
func (c *Config) OracleTimeout() (time.Duration, error) {
	if c.LLM.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid llm timeout %q: %w", c.LLM.Timeout, err)
	}
	return d, nil
}

// Provider returns the normalized provider name
func (c *Config) Provider() string {
	return strings.ToLower(strings.TrimSpace(c.LLM.Provider))
}

// Model returns the configured model or the provider's default
func (c *Config) Model() string {
	if c.LLM.Model != "" {
		return c.LLM.Model
	}
	return DefaultModels[c.Provider()]
}

// Vault returns the vault path with ~ expanded
func (c *Config) Vault() string {
	return expandHome(c.VaultPath)
}

// Index returns the link index database path. A relative path is taken
// from the vault root.
func (c *Config) Index() string {
	path := c.IndexPath
	if path == "" {
		path = DefaultIndexFile
	}
	path = expandHome(path)
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.Vault(), path)
	}
	return path
}

// ResolveNote turns a note argument into a path. A bare name is looked up
// in the vault and gets the note extension when it has none.
func (c *Config) ResolveNote(note string) string {
	if note == "" {
		note = c.NotePath
	}
	if note == "" {
		return ""
	}
	note = expandHome(note)
	if filepath.IsAbs(note) || strings.ContainsRune(note, filepath.Separator) {
		return note
	}
	if filepath.Ext(note) == "" {
		note += c.NoteExtension
	}
	return filepath.Join(c.Vault(), note)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[1:])
	}
	return path
}
