package catalog

import "time"

// Config holds configuration for the catalog sync.
type Config struct {
	// Enabled mounts the HTTP routes of the feature.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// IntervalMinutes schedules a pass from the start command. 0 disables scheduling.
	IntervalMinutes int `mapstructure:"interval_minutes" default:"0"`
	// ArchiveSnapshots stores every fetched catalog in object storage.
	ArchiveSnapshots bool `mapstructure:"archive_snapshots" default:"true"`
	// StaleReport counts stored packages missing from the fetched catalog.
	StaleReport bool `mapstructure:"stale_report" default:"true"`
	// CountryCacheSeconds is how long the country code index is reused between runs.
	CountryCacheSeconds int `mapstructure:"country_cache_seconds" default:"300"`
	// LeaseName is the lock shared by every sync trigger.
	LeaseName string `mapstructure:"lease_name" default:"catalog-sync"`
	// LeaseTTLSeconds bounds how long a crashed run can hold the lease.
	LeaseTTLSeconds int `mapstructure:"lease_ttl_seconds" default:"900"`
}

// DefaultConfig returns the configuration used when no file or environment is set.
func DefaultConfig() Config {
	return Config{
		Enabled:             true,
		ArchiveSnapshots:    true,
		StaleReport:         true,
		CountryCacheSeconds: 300,
		LeaseName:           "catalog-sync",
		LeaseTTLSeconds:     900,
	}
}

// LeaseTTL returns the lease duration, 15 minutes when unset.
func (c Config) LeaseTTL() time.Duration {
	if c.LeaseTTLSeconds <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(c.LeaseTTLSeconds) * time.Second
}

// Interval returns the scheduling interval. Zero disables the scheduler.
func (c Config) Interval() time.Duration {
	if c.IntervalMinutes <= 0 {
		return 0
	}
	return time.Duration(c.IntervalMinutes) * time.Minute
}
