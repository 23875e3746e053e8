// Package config builds one explicit configuration struct per binary.
// Values come from an optional config file (yaml/json/toml, first found
// wins) overridden by environment variables; a .env file is honored for
// local development.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"
	"github.com/samber/oops"

	"telegram-job-parser/internal/domain"
)

// Server configures the ingestion endpoint process.
type Server struct {
	BotToken      string `koanf:"bot_token"`
	ManagerChatID string `koanf:"manager_chat_id"`
	SharedSecret  string `koanf:"shared_secret"`
	Port          string `koanf:"port"`
	WebAppURL     string `koanf:"web_app_url"`
	DBPath        string `koanf:"db_path"`
	StaticDir     string `koanf:"static_dir"`
}

// Gatherer configures a gathering process. Source credentials are optional:
// a gatherer whose credentials are absent is disabled with a warning rather
// than failing the whole process.
type Gatherer struct {
	BotAPI           string `koanf:"bot_api"`
	SharedSecret     string `koanf:"shared_secret"`
	TelegramBotToken string `koanf:"telegram_bot_token"`
	TelegramChannels string `koanf:"telegram_channels"`
	FBGroups         string `koanf:"fb_groups"`
	FBScraperURL     string `koanf:"fb_scraper_url"`
	GoogleSheetID    string `koanf:"google_sheet_id"`
	GoogleCredsJSON  string `koanf:"google_creds_json"`
	ChannelAPIURL    string `koanf:"channel_api_url"`
	JobKeywords      string `koanf:"job_keywords"`
	CheckInterval    int    `koanf:"check_interval_minutes"`
}

// DefaultKeywords is the keyword list used when JOB_KEYWORDS is unset.
const DefaultKeywords = "вакансия,ищу,работа,hiring,job,remote,developer,программист"

func LoadServer() (*Server, error) {
	k, err := loadSources()
	if err != nil {
		return nil, err
	}

	setDefault(k, "shared_secret", "default-secret-key")
	setDefault(k, "port", "8000")
	setDefault(k, "web_app_url", "http://localhost:8000")
	setDefault(k, "db_path", "jobs.db")
	setDefault(k, "static_dir", "./static")

	var cfg Server
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling server config").Wrap(err)
	}

	if cfg.BotToken == "" {
		return nil, domain.ErrMissingBotToken
	}
	if cfg.ManagerChatID == "" {
		return nil, domain.ErrMissingManagerChat
	}

	return &cfg, nil
}

func LoadGatherer() (*Gatherer, error) {
	k, err := loadSources()
	if err != nil {
		return nil, err
	}

	setDefault(k, "bot_api", "http://localhost:8000/post")
	setDefault(k, "job_keywords", DefaultKeywords)
	setDefault(k, "check_interval_minutes", 5)

	var cfg Gatherer
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling gatherer config").Wrap(err)
	}

	if cfg.CheckInterval < 1 {
		cfg.CheckInterval = 5
	}

	return &cfg, nil
}

// Keywords returns the parsed keyword list.
func (g *Gatherer) Keywords() []string {
	return SplitList(g.JobKeywords)
}

// SplitList parses a comma-separated option into trimmed non-empty items.
func SplitList(s string) []string {
	if s == "" {
		return nil
	}
	return lo.FilterMap(strings.Split(s, ","), func(part string, _ int) (string, bool) {
		part = strings.TrimSpace(part)
		return part, part != ""
	})
}

func loadSources() (*koanf.Koanf, error) {
	_ = godotenv.Load()

	k := koanf.New(".")

	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		switch filepath.Ext(configFile) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", filepath.Ext(configFile))
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Environment variables override config file values:
	// SHARED_SECRET -> shared_secret
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	return k, nil
}

func setDefault(k *koanf.Koanf, key string, value interface{}) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}
