package types

import "github.com/diillson/bcra-dashboard-go/internal/domain/entity"

// CLIArgs represents the resolved command-line arguments.
type CLIArgs struct {
	ConfigFile         string
	BaseURL            string
	InsecureSkipVerify bool
	TimeoutSeconds     int
	UserAgent          string
	Days               int
	Concurrency        int
	DedupeDates        bool
	Variables          []entity.Indicator
	ReportName         string
	ReportType         []string
	Dir                string
	DataDir            string
	TimestampFiles     bool
	Trend              bool
	Publish            PublishConfig
}
