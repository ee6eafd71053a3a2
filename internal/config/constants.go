package config

import (
	"time"

	"nygaming/pkg/contracts/domain"
)

// Application constants for the NY gaming report monitor.
const (
	// Application Info
	AppName    = "NY Gaming Monitor"
	AppVersion = "1.2.0"

	// Analyzer policy constants. The GGR change threshold and the
	// year-over-year lookback are fixed policy, injected into the analyzer
	// and calculator through config so tests can vary them.
	DefaultGGRChangeThreshold = 0.20
	DefaultYoYLookbackDays    = 364 // 52 whole weeks, preserves day-of-week alignment

	// Collector settings
	DefaultHTTPTimeout    = 5 * time.Minute
	DefaultConnectTimeout = 30 * time.Second
	DefaultFetchRPS       = 4.0
	DefaultFetchBurst     = 2
	DefaultUserAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

	// File Paths (relative to executable)
	DefaultDataDir      = "data"
	DefaultLogsDir      = "logs"
	DefaultDownloadsDir = "data/downloads"
	DefaultReportsDir   = "data/reports"
	DefaultArchiveDir   = "data/archive"

	// Well-known file names
	SnapshotCSVName = "ny_gaming_data.csv"
	ChangeLogName   = "data_changes.json"
	WorkbookPrefix  = "ny_gaming_analysis"

	// Archive directories are keyed by run timestamp.
	ArchiveTimestampLayout = "20060102_150405"
	// LatestArchiveName is the pointer directory holding the baseline the
	// next run compares against.
	LatestArchiveName = "latest"

	// Change log retention, in entries.
	ChangeLogMaxEntries = 100

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// DefaultSources is the fixed catalog of NY State mobile sports wagering
// weekly reports. The brand string is what appears in the canonical
// dataset; the filename is what the raw download is stored under.
func DefaultSources() []domain.ReportSource {
	return []domain.ReportSource{
		{Brand: "Bally Bet", URL: "https://gaming.ny.gov/ballybet-weekly-report-excel", Filename: "Bally_Bet_Weekly_Report.xlsx"},
		{Brand: "BetMGM", URL: "https://gaming.ny.gov/betmgm-weekly-report-excel", Filename: "BetMGM_Weekly_Report.xlsx"},
		{Brand: "Caesars Sport Book", URL: "https://gaming.ny.gov/caesars-sport-book-weekly-report-excel", Filename: "Caesars_Sport_Book_Weekly_Report.xlsx"},
		{Brand: "DraftKings Sport Book", URL: "https://gaming.ny.gov/draftkings-sport-book-weekly-report-excel", Filename: "DraftKings_Sport_Book_Weekly_Report.xlsx"},
		{Brand: "ESPN Bet", URL: "https://gaming.ny.gov/wynn-interactive-weekly-report-excel", Filename: "ESPN_Bet_Wynn_Interactive_Weekly_Report.xlsx"},
		{Brand: "Fanatics", URL: "https://gaming.ny.gov/fanatics-weekly-report-excel", Filename: "Fanatics_Weekly_Report.xlsx"},
		{Brand: "FanDuel", URL: "https://gaming.ny.gov/fanduel-weekly-report-excel", Filename: "FanDuel_Weekly_Report.xlsx"},
		{Brand: "Resorts World Bet", URL: "https://gaming.ny.gov/resorts-world-bet-weekly-report-excel", Filename: "Resorts_World_Bet_Weekly_Report.xlsx"},
		{Brand: "Rush Street Interactive", URL: "https://gaming.ny.gov/rush-street-interactive-weekly-report-excel", Filename: "Rush_Street_Interactive_Weekly_Report.xlsx"},
	}
}
