package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is read from the environment. Sub-struct fields use split_words with no
// envconfig tag: a tagged field would fall back to the bare name (PATH, USER, PORT)
// when its prefixed key is unset.
type Config struct {
	Service    Service    `envconfig:"SERVICE"`
	Store      Store      `envconfig:"STORE"`
	SQLite     SQLite     `envconfig:"SQLITE"`
	ClickHouse ClickHouse `envconfig:"CLICKHOUSE"`
	Postgres   Postgres   `envconfig:"POSTGRES"`
	SQS        SQS        `envconfig:"SQS"`
	Worker     Worker     `envconfig:"WORKER"`
	Catalog    Catalog    `envconfig:"CATALOG"`
	Cache      Cache      `envconfig:"CACHE"`
	Suggest    Suggest    `envconfig:"SUGGEST"`
	Admin      Admin      `envconfig:"ADMIN"`
}

type Service struct {
	Environment string `split_words:"true" default:"development"`
	APIPort     string `split_words:"true" default:"8000"`
	Host        string `split_words:"true" default:"localhost:8000"`
	LogLevel    string `split_words:"true"`
	// Timezone used for hour buckets and rendered timestamps. "Local" uses the host zone.
	Timezone string `split_words:"true" default:"Local"`
}

type Store struct {
	Driver string `split_words:"true" default:"sqlite"`
}

type SQLite struct {
	Path string `split_words:"true" default:"metrics.db"`
}

type ClickHouse struct {
	Host               string `split_words:"true" default:"localhost"`
	Port               string `split_words:"true" default:"9000"`
	Database           string `split_words:"true" default:"default"`
	User               string `split_words:"true" default:"default"`
	Password           string `split_words:"true" default:""`
	UseTLS             bool   `split_words:"true" default:"false"`
	MaxOpenConns       int    `split_words:"true" default:"5"`
	MaxIdleConns       int    `split_words:"true" default:"2"`
	ConnMaxLifetimeSec int    `split_words:"true" default:"3600"`
	NodeID             int64  `split_words:"true" default:"1"`
}

type Postgres struct {
	DSN      string `split_words:"true" default:""`
	MaxConns int32  `split_words:"true" default:"4"`
}

// SQS export is disabled when QueueURL is empty.
type SQS struct {
	Endpoint string `split_words:"true"`
	QueueURL string `split_words:"true"`
	Region   string `split_words:"true" default:"eu-central-1"`
}

type Worker struct {
	DrainTimeout      time.Duration `split_words:"true" default:"5s"`
	ReconnectInterval time.Duration `split_words:"true" default:"5s"`
	ShutdownTimeout   time.Duration `split_words:"true" default:"10s"`
	// ExportTimeout bounds each SQS publish so a slow endpoint cannot stall persistence.
	ExportTimeout time.Duration `split_words:"true" default:"5s"`
}

type Catalog struct {
	Path           string `split_words:"true" default:"Item Database/output.xlsx"`
	Sheet          string `split_words:"true"`
	DownloadURL    string `split_words:"true"`
	ReloadSchedule string `split_words:"true" default:"@every 15m"`
}

type Cache struct {
	Capacity int `split_words:"true" default:"100"`
}

type Suggest struct {
	Limit  int     `split_words:"true" default:"5"`
	Cutoff float64 `split_words:"true" default:"0.6"`
}

type Admin struct {
	Username string `split_words:"true" default:"admin"`
	Password string `split_words:"true" required:"true"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.Store.Driver {
	case "sqlite", "clickhouse", "postgres":
	default:
		return nil, fmt.Errorf("unsupported store driver: %s (supported: sqlite, clickhouse, postgres)", cfg.Store.Driver)
	}

	return &cfg, nil
}

// Location resolves the configured timezone.
func (s Service) Location() (*time.Location, error) {
	if s.Timezone == "" || s.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}
