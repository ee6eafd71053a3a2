// Package config provides centralized configuration management for the
// NY gaming report monitor. It handles loading configuration from multiple
// sources, validation, and path resolution relative to the executable.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. config.yaml next to the executable
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern NYG_* for namespacing:
//
//	NYG_SMTP_HOST=smtp.gmail.com
//	NYG_SMTP_USER=monitor@example.com
//	NYG_SMTP_PASSWORD=...
//	NYG_SMTP_TO=alerts@example.com
//	NYG_LOGGING_LEVEL=info
//	NYG_ANALYZER_GGR_CHANGE_THRESHOLD=0.20
//
// # Path Management
//
// The Paths type resolves every file location (downloads, snapshots,
// archive, reports, logs) relative to the executable directory, never the
// working directory, so the scheduler can invoke the binaries from
// anywhere:
//
//	paths, err := config.GetPaths()
//	csv := paths.CurrentSnapshotCSV
//	prev := paths.PreviousSnapshotCSV()
package config
