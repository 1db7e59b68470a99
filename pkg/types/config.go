package types

import (
	"errors"
	"time"
)

// Config holds storage, rollover, and export parameters for the kiosk
// backend. Zero values fall back to the defaults returned by the getter
// methods, so an empty Config is usable as-is apart from DataDir.
type Config struct {
	Port      int    `json:"port" yaml:"port"`
	DataDir   string `json:"data_dir" yaml:"data_dir"`
	ExportDir string `json:"export_dir" yaml:"export_dir"`

	// Timezone is the reference timezone for partition keys and
	// timestamps. Defaults to Asia/Seoul.
	Timezone string `json:"timezone" yaml:"timezone"`

	// DebounceMS is the delay after the last mutation before the
	// partition snapshot is written. Defaults to 100.
	DebounceMS int `json:"debounce_ms" yaml:"debounce_ms"`

	// RolloverPollSec is the background date-watcher interval.
	// Defaults to 30. Rollover only needs whole-day resolution.
	RolloverPollSec int `json:"rollover_poll_sec" yaml:"rollover_poll_sec"`

	// ExportDelayMS is the delay between a successful create and the
	// fire-and-forget report run. Defaults to 600.
	ExportDelayMS int `json:"export_delay_ms" yaml:"export_delay_ms"`

	// PageSize is the list page size. Defaults to 5.
	PageSize int `json:"page_size" yaml:"page_size"`
}

// DefaultTimezone is the reference timezone when Config.Timezone is empty.
const DefaultTimezone = "Asia/Seoul"

// Config validation errors.
var (
	ErrDataDirEmpty           = errors.New("data directory must not be empty")
	ErrTimezoneUnknown        = errors.New("unknown timezone")
	ErrDebounceInvalid        = errors.New("debounce interval must not be negative")
	ErrRolloverPollInvalid    = errors.New("rollover poll interval must not be negative")
	ErrExportDelayInvalid     = errors.New("export delay must not be negative")
	ErrPageSizeInvalid        = errors.New("page size must not be negative")
)

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure. Negative intervals are rejected;
// zero means "use the default".
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return ErrTimezoneUnknown
		}
	}
	if c.DebounceMS < 0 {
		return ErrDebounceInvalid
	}
	if c.RolloverPollSec < 0 {
		return ErrRolloverPollInvalid
	}
	if c.ExportDelayMS < 0 {
		return ErrExportDelayInvalid
	}
	if c.PageSize < 0 {
		return ErrPageSizeInvalid
	}
	return nil
}

// Location returns the reference timezone. Validate must have accepted
// the config first; an unknown zone falls back to UTC here.
func (c Config) Location() *time.Location {
	name := c.Timezone
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Debounce returns the persistence debounce window.
func (c Config) Debounce() time.Duration {
	if c.DebounceMS == 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// RolloverPoll returns the background date-watcher interval.
func (c Config) RolloverPoll() time.Duration {
	if c.RolloverPollSec == 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RolloverPollSec) * time.Second
}

// ExportDelay returns the create-to-export trigger delay.
func (c Config) ExportDelay() time.Duration {
	if c.ExportDelayMS == 0 {
		return 600 * time.Millisecond
	}
	return time.Duration(c.ExportDelayMS) * time.Millisecond
}

// ExportPath returns the spreadsheet output directory.
func (c Config) ExportPath() string {
	if c.ExportDir == "" {
		return "exports"
	}
	return c.ExportDir
}

// ListPageSize returns the list page size.
func (c Config) ListPageSize() int {
	if c.PageSize == 0 {
		return 5
	}
	return c.PageSize
}
