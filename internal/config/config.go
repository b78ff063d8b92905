// Package config loads kaiwa.yml.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/itnihongo/kaiwa/internal/media"
)

type Config struct {
	Content   ContentConfig   `mapstructure:"content"`
	Media     MediaConfig     `mapstructure:"media"`
	Views     ViewsConfig     `mapstructure:"views"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Outputs   OutputsConfig   `mapstructure:"outputs"`
}

type ContentConfig struct {
	RootDirectory string `mapstructure:"root_directory" validate:"required"`
	// BaseURL switches lesson fetching and video probing to HTTP.
	BaseURL               string `mapstructure:"base_url" validate:"omitempty,url"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"gte=1"`
}

func (c ContentConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

type MediaConfig struct {
	LookbackSeconds   float64 `mapstructure:"lookback_seconds" validate:"gte=0"`
	GuardSeconds      float64 `mapstructure:"guard_seconds" validate:"gte=0"`
	MinSegmentSeconds float64 `mapstructure:"min_segment_seconds" validate:"gte=0"`
}

// Tolerances returns the synchronizer margins.
func (c MediaConfig) Tolerances() media.Tolerances {
	return media.Tolerances{
		Lookback:   c.LookbackSeconds,
		Guard:      c.GuardSeconds,
		MinSegment: c.MinSegmentSeconds,
	}
}

type ViewsConfig struct {
	Backend      string       `mapstructure:"backend" validate:"oneof=file github mysql"`
	FallbackFile string       `mapstructure:"fallback_file" validate:"required"`
	GitHub       GitHubConfig `mapstructure:"github"`
}

type GitHubConfig struct {
	Owner    string `mapstructure:"owner"`
	Repo     string `mapstructure:"repo"`
	Branch   string `mapstructure:"branch"`
	FilePath string `mapstructure:"file_path"`
	Token    string `mapstructure:"token"`
	APIURL   string `mapstructure:"api_url" validate:"omitempty,url"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"gte=1,lte=65535"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// TemplatesConfig overrides the embedded templates; empty uses the embedded one.
type TemplatesConfig struct {
	LessonPageTemplate  string `mapstructure:"lesson_page_template" validate:"omitempty,file"`
	OutlinePageTemplate string `mapstructure:"outline_page_template" validate:"omitempty,file"`
	LessonPrintTemplate string `mapstructure:"lesson_print_template" validate:"omitempty,file"`
}

type OutputsConfig struct {
	PDFDirectory string `mapstructure:"pdf_directory"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("kaiwa")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/kaiwa")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("content.root_directory", ".")
	v.SetDefault("content.base_url", "")
	v.SetDefault("content.request_timeout_seconds", 10)
	v.SetDefault("media.lookback_seconds", 0.25)
	v.SetDefault("media.guard_seconds", 0.35)
	v.SetDefault("media.min_segment_seconds", 0.1)
	v.SetDefault("views.backend", "file")
	v.SetDefault("views.fallback_file", filepath.Join("data", "views.json"))
	v.SetDefault("views.github.branch", "main")
	v.SetDefault("views.github.file_path", "data/views.json")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "kaiwa")
	v.SetDefault("database.username", "kaiwa")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"*"})
	// Empty means the embedded page template is used
	v.SetDefault("templates.lesson_page_template", "")
	v.SetDefault("templates.outline_page_template", "")
	v.SetDefault("templates.lesson_print_template", "")
	v.SetDefault("outputs.pdf_directory", filepath.Join("outputs", "pdf"))

	if err := v.BindEnv("views.github.token", "GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind GITHUB_TOKEN environment variable: %w", err)
	}
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("content.base_url", "KAIWA_BASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind KAIWA_BASE_URL environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
