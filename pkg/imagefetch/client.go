package imagefetch

import (
	"context"
	"errors"
	"imagefetch/internal/config"
	"imagefetch/internal/download"
	"imagefetch/internal/download/types"
	"imagefetch/internal/utils"
	"io"
	"sync"
)

// Client exposes a stable API for embedding the fetcher in other programs.
// Calls are serialized; one download runs at a time.
type Client struct {
	fetcher   *download.Fetcher
	outputDir string

	mu        sync.Mutex
	closeOnce sync.Once
}

// NewClient prepares the output directory and returns a ready client.
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	settings := resolveSettings(opts)
	outputDir := settings.General.OutputDir
	if opts.OutputDir != "" {
		outputDir = opts.OutputDir
	}
	if err := download.EnsureDirectory(outputDir); err != nil {
		return nil, err
	}

	utils.SetVerbose(opts.Verbose)

	rc := types.ConvertSettings(settings)
	if opts.Timeout > 0 {
		rc.Timeout = opts.Timeout
	}
	if opts.UserAgent != "" {
		rc.UserAgent = opts.UserAgent
	}
	if opts.HTTP3 {
		rc.HTTP3 = true
	}
	switch opts.LockPath {
	case "":
		rc.LockPath = config.GetLockPath()
	case "-":
		rc.LockPath = ""
	default:
		rc.LockPath = opts.LockPath
	}

	out := opts.Output
	if out == nil {
		out = io.Discard
	}

	return &Client{
		fetcher:   download.NewFetcher(rc, out),
		outputDir: outputDir,
	}, nil
}

// resolveSettings keeps the client usable even when settings are missing
// or fail to load from disk.
func resolveSettings(opts *ClientOptions) *config.Settings {
	if opts.Settings != nil {
		return opts.Settings
	}
	settings, err := config.LoadSettings()
	if err != nil {
		return config.DefaultSettings()
	}
	return settings
}

// OutputDir returns the directory fetched files are written to.
func (c *Client) OutputDir() string {
	return c.outputDir
}

// Fetch downloads url into the output directory. The returned error is the
// classified failure, also available on the Result.
func (c *Client) Fetch(ctx context.Context, url string) (Result, error) {
	if c == nil || c.fetcher == nil {
		return Result{}, errors.New("client not initialized")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	res := c.fetcher.Fetch(ctx, url, c.outputDir)
	if res.OK() {
		return res, nil
	}
	return res, res.Err
}

// Close releases transport resources. It is safe to call more than once.
func (c *Client) Close() error {
	if c == nil || c.fetcher == nil {
		return nil
	}
	var err error
	c.closeOnce.Do(func() {
		err = c.fetcher.Close()
	})
	return err
}
