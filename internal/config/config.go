package config

import (
	"fmt"
	"time"

	"github.com/Another0Noob/fridge-recipes/internal/logging"
	"github.com/Another0Noob/fridge-recipes/internal/recipeapi"
	"gopkg.in/ini.v1"
)

// Config is the whole application configuration.
type Config struct {
	API    recipeapi.Options
	Log    logging.Config
	Server Server
	// Category is the default category selection for recommendations.
	Category string
}

type Server struct {
	Addr string
}

// Default returns the configuration used for keys the file leaves out.
func Default() Config {
	return Config{
		API: recipeapi.Options{
			BaseURL:           recipeapi.DefaultBaseURL,
			Service:           recipeapi.DefaultService,
			PageSize:          recipeapi.DefaultPageSize,
			RequestsPerSecond: 2,
			Timeout:           30 * time.Second,
			UserAgent:         recipeapi.DefaultUserAgent,
		},
		Log: logging.Config{
			Level:  "info",
			Format: "console",
		},
		Server: Server{Addr: ":39039"},
	}
}

// Load reads an ini file on top of Default. An empty path returns the defaults.
//
//	[api]
//	key = 1dba55b5f8df42a29903
//	page_size = 1000
//	requests_per_second = 2
//	timeout = 30s
//
//	[log]
//	level = debug
//
//	[server]
//	addr = :39039
//
//	[recommend]
//	category = 반찬
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := apply(f, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadBytes is Load for in-memory content.
func LoadBytes(data []byte) (Config, error) {
	cfg := Default()
	f, err := ini.Load(data)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if err := apply(f, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func apply(f *ini.File, cfg *Config) error {
	api := f.Section("api")
	cfg.API.BaseURL = api.Key("base_url").MustString(cfg.API.BaseURL)
	cfg.API.Key = api.Key("key").MustString(cfg.API.Key)
	cfg.API.Service = api.Key("service").MustString(cfg.API.Service)
	cfg.API.UserAgent = api.Key("user_agent").MustString(cfg.API.UserAgent)

	if api.HasKey("page_size") {
		n, err := api.Key("page_size").Int()
		if err != nil {
			return fmt.Errorf("api.page_size: %w", err)
		}
		if n <= 0 {
			return fmt.Errorf("api.page_size must be positive, got %d", n)
		}
		cfg.API.PageSize = n
	}
	if api.HasKey("requests_per_second") {
		rps, err := api.Key("requests_per_second").Float64()
		if err != nil {
			return fmt.Errorf("api.requests_per_second: %w", err)
		}
		if rps < 0 {
			return fmt.Errorf("api.requests_per_second must not be negative, got %v", rps)
		}
		cfg.API.RequestsPerSecond = rps
	}
	if api.HasKey("timeout") {
		d, err := api.Key("timeout").Duration()
		if err != nil {
			return fmt.Errorf("api.timeout: %w", err)
		}
		cfg.API.Timeout = d
	}

	log := f.Section("log")
	cfg.Log.Level = log.Key("level").MustString(cfg.Log.Level)
	cfg.Log.Format = log.Key("format").In(cfg.Log.Format, []string{"console", "json"})

	cfg.Server.Addr = f.Section("server").Key("addr").MustString(cfg.Server.Addr)
	cfg.Category = f.Section("recommend").Key("category").MustString(cfg.Category)
	return nil
}
