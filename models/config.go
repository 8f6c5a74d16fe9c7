package models

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration, loaded once and passed into
// constructors. There is no package-level state; every collaborator gets the
// slice of config it needs.
type Config struct {
	Mailbox    MailboxConfig    `yaml:"mailbox"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Geocode    GeocodeConfig    `yaml:"geocode"`
	Maps       MapsConfig       `yaml:"maps"`
	State      StateConfig      `yaml:"state"`
	Archive    ArchiveConfig    `yaml:"archive"`
	Content    ContentConfig    `yaml:"content"`
	Sites      []SiteConfig     `yaml:"wordpress_sites"`
	Webhook    WebhookConfig    `yaml:"sheets_webhook"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type MailboxConfig struct {
	InboxDir     string `yaml:"inbox_dir"`
	ProcessedDir string `yaml:"processed_dir"`
	MaxMessages  int    `yaml:"max_messages"`
}

type EnrichmentConfig struct {
	Enabled        bool   `yaml:"enabled"`
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	UsePageContext bool   `yaml:"use_page_context"`
}

type GeocodeConfig struct {
	BaseURL      string `yaml:"base_url"`
	CountryCodes string `yaml:"country_codes"`
}

type MapsConfig struct {
	APIKey    string `yaml:"api_key"`
	OutputDir string `yaml:"output_dir"`
	Size      string `yaml:"size"`
	Zoom      int    `yaml:"zoom"`
}

type StateConfig struct {
	LedgerFile string `yaml:"ledger_file"`
}

type ArchiveConfig struct {
	Database string `yaml:"database"`
}

type ContentConfig struct {
	IntroHTML   string `yaml:"intro_html"`
	FooterHTML  string `yaml:"footer_html"`
	CTAURL      string `yaml:"cta_url"`
	CTAText     string `yaml:"cta_text"`
	AddUTM      bool   `yaml:"add_utm"`
	UTMSource   string `yaml:"utm_source"`
	UTMMedium   string `yaml:"utm_medium"`
	UTMCampaign string `yaml:"utm_campaign"`
}

type SiteConfig struct {
	BaseURL             string   `yaml:"base_url"`
	Username            string   `yaml:"username"`
	ApplicationPassword string   `yaml:"application_password"`
	Status              string   `yaml:"status"`
	CategoryNames       []string `yaml:"category_names"`
}

type WebhookConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// LoadConfig reads the YAML config file and overlays secrets from the
// environment. A .env file in the working directory is honoured when present
// (system env vars win when both are set).
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load() // absent .env is fine

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Secrets from the environment take precedence over the config file so
	// the YAML can be committed without credentials.
	if v := os.Getenv("PERPLEXITY_API_KEY"); v != "" {
		cfg.Enrichment.APIKey = v
	}
	if v := os.Getenv("GEOAPIFY_API_KEY"); v != "" {
		cfg.Maps.APIKey = v
	}

	cfg.applyDefaults()

	// Resolve paths relative to the config file so sync works from any cwd.
	dir := filepath.Dir(path)
	cfg.Mailbox.InboxDir = resolvePath(dir, cfg.Mailbox.InboxDir)
	cfg.Mailbox.ProcessedDir = resolvePath(dir, cfg.Mailbox.ProcessedDir)
	cfg.Maps.OutputDir = resolvePath(dir, cfg.Maps.OutputDir)
	cfg.State.LedgerFile = resolvePath(dir, cfg.State.LedgerFile)
	cfg.Archive.Database = resolvePath(dir, cfg.Archive.Database)

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Mailbox.InboxDir == "" {
		c.Mailbox.InboxDir = "inbox"
	}
	if c.Mailbox.ProcessedDir == "" {
		c.Mailbox.ProcessedDir = filepath.Join(c.Mailbox.InboxDir, "processed")
	}
	if c.Mailbox.MaxMessages == 0 {
		c.Mailbox.MaxMessages = 10
	}
	if c.Enrichment.BaseURL == "" {
		c.Enrichment.BaseURL = "https://api.perplexity.ai"
	}
	if c.Enrichment.Model == "" {
		c.Enrichment.Model = "sonar-pro"
	}
	if c.Enrichment.TimeoutSeconds == 0 {
		c.Enrichment.TimeoutSeconds = 60
	}
	if c.Geocode.BaseURL == "" {
		c.Geocode.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if c.Geocode.CountryCodes == "" {
		c.Geocode.CountryCodes = "nl"
	}
	if c.Maps.OutputDir == "" {
		c.Maps.OutputDir = filepath.Join("artifacts", "maps")
	}
	if c.Maps.Size == "" {
		c.Maps.Size = "800x500"
	}
	if c.Maps.Zoom == 0 {
		c.Maps.Zoom = 15
	}
	if c.State.LedgerFile == "" {
		c.State.LedgerFile = filepath.Join("state", "processed.yaml")
	}
	if c.Archive.Database == "" {
		c.Archive.Database = "kavelarchitect.db"
	}
	if c.Content.CTAURL == "" {
		c.Content.CTAURL = "https://www.zwijsen.net/contact-2/"
	}
	if c.Content.CTAText == "" {
		c.Content.CTAText = "Neem contact op"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
