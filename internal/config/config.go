package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"namestat/internal/model/naming"
	"namestat/internal/service/frequency"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	OutputConsole = "console"
	OutputCSV     = "csv"
	OutputJSON    = "json"

	ProviderLexicon = "lexicon"
	ProviderRemote  = "remote"
	ProviderGemini  = "gemini"
)

type Config struct {
	App    AppConfig    `yaml:"app"`
	Source SourceConfig `yaml:"source"`
	Tagger TaggerConfig `yaml:"tagger"`
	Gemini GeminiConfig `yaml:"gemini"`
	Mcp    McpConfig    `yaml:"mcp"`
}

type AppConfig struct {
	Port           int      `yaml:"port"`
	WorkDir        string   `yaml:"workdir"`
	OutputDir      string   `yaml:"output_dir"`
	Output         string   `yaml:"output"`
	Words          string   `yaml:"words"`
	Names          string   `yaml:"names"`
	TopSize        int      `yaml:"top_size"`
	Order          string   `yaml:"order"`
	MaxFiles       int      `yaml:"max_files"` // per source; negative means unlimited
	NumFileThreads int      `yaml:"num_file_threads"`
	Languages      []string `yaml:"languages"`
	SkipDirs       []string `yaml:"skip_dirs"`
	LogLevel       string   `yaml:"log_level"`
}

type SourceConfig struct {
	Repositories []Repository `yaml:"repositories"`
}

// Repository is one project to scan: a local path, or a git URL cloned into Path
type Repository struct {
	Name     string `yaml:"name"`
	Path     string `yaml:"path"`
	URL      string `yaml:"url"`
	Disabled bool   `yaml:"disabled"`
}

type TaggerConfig struct {
	Provider    string `yaml:"provider"`
	LexiconPath string `yaml:"lexicon_path"`
	URL         string `yaml:"url"`
	TimeoutMs   int    `yaml:"timeout_ms"`
	CacheSize   int    `yaml:"cache_size"`
}

// Timeout is the per-word classification deadline
func (t TaggerConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutMs) * time.Millisecond
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type McpConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

func (m McpConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}

// LoadConfig reads the app and source configuration files. Missing files are not an
// error: defaults are applied to whatever was read.
func LoadConfig(appConfigPath, sourceConfigPath string) (*Config, error) {
	if err := loadEnvFile(".env"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := readYAML(appConfigPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load app config: %w", err)
	}

	var source SourceConfig
	if err := readYAML(sourceConfigPath, &source); err != nil {
		return nil, fmt.Errorf("failed to load source config: %w", err)
	}
	cfg.Source.Repositories = append(cfg.Source.Repositories, source.Repositories...)

	cfg.ApplyDefaults()
	return cfg, nil
}

func readYAML(path string, out interface{}) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := yaml.UnmarshalStrict(data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", naming.ErrConfiguration, path, err)
	}
	return nil
}

func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

func (c *Config) ApplyDefaults() {
	if c.App.Port == 0 {
		c.App.Port = 8080
	}
	if c.App.WorkDir == "" {
		c.App.WorkDir = "."
	}
	if c.App.OutputDir == "" {
		c.App.OutputDir = "."
	}
	if c.App.Output == "" {
		c.App.Output = OutputConsole
	}
	if c.App.Words == "" {
		c.App.Words = "verb"
	}
	if c.App.Names == "" {
		c.App.Names = "func"
	}
	if c.App.TopSize == 0 {
		c.App.TopSize = 200
	}
	if c.App.Order == "" {
		c.App.Order = "ascending"
	}
	if c.App.MaxFiles == 0 {
		c.App.MaxFiles = 100
	}
	if len(c.App.Languages) == 0 {
		c.App.Languages = []string{"python"}
	}
	if len(c.App.SkipDirs) == 0 {
		c.App.SkipDirs = []string{".git", ".hg", ".svn", "node_modules", "vendor", "__pycache__", ".venv", "venv", ".tox", "dist", "build"}
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Tagger.Provider == "" {
		c.Tagger.Provider = ProviderLexicon
	}
	if c.Tagger.TimeoutMs == 0 {
		c.Tagger.TimeoutMs = 2000
	}
	if c.Tagger.CacheSize == 0 {
		c.Tagger.CacheSize = 65536
	}
	if c.Gemini.APIKey == "" {
		c.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Mcp.Host == "" {
		c.Mcp.Host = "localhost"
	}
	if c.Mcp.Port == 0 {
		c.Mcp.Port = 8081
	}
}

// Validate rejects option combinations that would make a run meaningless.
// Every error wraps naming.ErrConfiguration.
func (c *Config) Validate() error {
	switch c.App.Output {
	case OutputConsole, OutputCSV, OutputJSON:
	default:
		return fmt.Errorf("%w: unknown output format %q (use console, csv or json)", naming.ErrConfiguration, c.App.Output)
	}
	if _, err := naming.ParseCategory(c.App.Words); err != nil {
		return err
	}
	if _, err := naming.ParseIdentifierKind(c.App.Names); err != nil {
		return err
	}
	if c.App.TopSize <= 0 {
		return fmt.Errorf("%w: top size must be positive, got %d", naming.ErrConfiguration, c.App.TopSize)
	}
	if _, err := frequency.ParseOrder(c.App.Order); err != nil {
		return err
	}

	switch c.Tagger.Provider {
	case ProviderLexicon:
	case ProviderRemote:
		if strings.TrimSpace(c.Tagger.URL) == "" {
			return fmt.Errorf("%w: remote tagger requires tagger.url", naming.ErrConfiguration)
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("%w: gemini tagger requires GEMINI_API_KEY or gemini.api_key", naming.ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown tagger provider %q", naming.ErrConfiguration, c.Tagger.Provider)
	}

	for i := range c.Source.Repositories {
		if err := c.Source.Repositories[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a single repository entry
func (r *Repository) Validate() error {
	if r.Path == "" && r.URL == "" {
		return fmt.Errorf("%w: repository %q needs a path or a url", naming.ErrConfiguration, r.Name)
	}
	if r.URL != "" && !strings.HasSuffix(r.URL, ".git") {
		return fmt.Errorf("%w: repository url %q must end with .git", naming.ErrConfiguration, r.URL)
	}
	return nil
}

// DisplayName returns the configured name, or the path when unnamed
func (r *Repository) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	if r.Path != "" {
		return r.Path
	}
	return r.URL
}

// Category returns the parsed word category
func (a AppConfig) Category() (naming.Category, error) {
	return naming.ParseCategory(a.Words)
}

// Kind returns the parsed identifier kind
func (a AppConfig) Kind() (naming.IdentifierKind, error) {
	return naming.ParseIdentifierKind(a.Names)
}
