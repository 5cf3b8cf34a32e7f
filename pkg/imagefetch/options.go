package imagefetch

import (
	"imagefetch/internal/config"
	"io"
	"time"
)

// ClientOptions configures the embedded fetcher.
type ClientOptions struct {
	// OutputDir defaults to Fetched_Images.
	OutputDir string
	Timeout   time.Duration
	UserAgent string
	HTTP3     bool
	Verbose   bool
	// Settings, when set, replaces the settings file.
	Settings *config.Settings
	// Output receives the per-fetch progress lines. Defaults to io.Discard.
	Output io.Writer
	// LockPath overrides the cross-process lock file. Empty uses the
	// runtime directory default; "-" disables locking.
	LockPath string
}
