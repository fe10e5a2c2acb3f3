package types

import "github.com/diillson/bcra-dashboard-go/internal/domain/entity"

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	BaseURL            string             `json:"base_url" yaml:"base_url" toml:"base_url"`
	InsecureSkipVerify *bool              `json:"insecure_skip_verify" yaml:"insecure_skip_verify" toml:"insecure_skip_verify"`
	TimeoutSeconds     int                `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`
	UserAgent          string             `json:"user_agent" yaml:"user_agent" toml:"user_agent"`
	Days               int                `json:"days" yaml:"days" toml:"days"`
	Concurrency        int                `json:"concurrency" yaml:"concurrency" toml:"concurrency"`
	DedupeDates        *bool              `json:"dedupe_dates" yaml:"dedupe_dates" toml:"dedupe_dates"`
	Variables          []entity.Indicator `json:"variables" yaml:"variables" toml:"variables"`
	ReportName         string             `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType         []string           `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir                string             `json:"dir" yaml:"dir" toml:"dir"`
	DataDir            string             `json:"data_dir" yaml:"data_dir" toml:"data_dir"`
	TimestampFiles     bool               `json:"timestamp_files" yaml:"timestamp_files" toml:"timestamp_files"`
	Trend              bool               `json:"trend" yaml:"trend" toml:"trend"`
	Publish            PublishConfig      `json:"publish" yaml:"publish" toml:"publish"`
}

// PublishConfig configura o upload dos arquivos exportados para o S3.
type PublishConfig struct {
	Bucket  string `json:"bucket" yaml:"bucket" toml:"bucket"`
	Prefix  string `json:"prefix" yaml:"prefix" toml:"prefix"`
	Region  string `json:"region" yaml:"region" toml:"region"`
	Profile string `json:"profile" yaml:"profile" toml:"profile"`
}
