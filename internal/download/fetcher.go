// Package download fetches a single resource over HTTP and persists it under
// a collision-free name. Failures are reported as types.ErrorKind values on
// the returned Result.
package download

import (
	"context"
	"errors"
	"fmt"
	"imagefetch/greenhttp"
	"imagefetch/internal/download/types"
	"imagefetch/internal/utils"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/h2non/filetype"
	"github.com/schollz/progressbar/v3"
	"github.com/vfaronov/httpheader"
)

// Fetcher downloads one resource at a time into a directory.
type Fetcher struct {
	client  *greenhttp.HTTPClient
	Runtime *types.RuntimeConfig

	// Out receives progress lines ("Connecting to", "Saving as").
	Out io.Writer
	// Progress, when set, receives a transfer progress bar.
	Progress io.Writer
	// Exists decides whether a candidate path is taken.
	Exists utils.ExistsFunc
}

// NewFetcher creates a fetcher for the given runtime settings.
func NewFetcher(runtime *types.RuntimeConfig, out io.Writer) *Fetcher {
	if runtime == nil {
		runtime = types.DefaultRuntimeConfig()
	}
	if out == nil {
		out = io.Discard
	}

	return &Fetcher{
		client: greenhttp.NewHTTPClient(greenhttp.Options{
			Timeout:   runtime.GetTimeout(),
			UserAgent: runtime.GetUserAgent(),
			HTTP3:     runtime.HTTP3,
		}),
		Runtime: runtime,
		Out:     out,
		Exists:  utils.PathExists,
	}
}

// Close releases transport resources.
func (f *Fetcher) Close() error {
	return f.client.Close()
}

// Fetch retrieves url and streams the body into a new file under dir, which
// must already exist. Failures never escape as panics; they are returned as
// a Result with Kind set. A failure mid-stream leaves the partial file.
func (f *Fetcher) Fetch(ctx context.Context, url string, dir string) (res types.Result) {
	start := time.Now()
	res.URL = url

	defer func() {
		if p := recover(); p != nil {
			utils.Debug("Fetch: recovered panic for %s: %v", url, p)
			res.Kind = types.KindUnexpected
			res.Err = fmt.Errorf("%v", p)
		}
		res.Elapsed = time.Since(start)
	}()

	err := f.fetch(ctx, url, dir, &res)
	if err != nil {
		res.Kind = types.KindOf(err)
		res.Err = err
		utils.Debug("Fetch %s failed (%s): %v", url, res.Kind, err)
		return res
	}

	utils.Debug("Fetch %s completed in %v, %d bytes", url, time.Since(start), res.Size)
	return res
}

func (f *Fetcher) fetch(ctx context.Context, url string, dir string, res *types.Result) error {
	fmt.Fprintf(f.Out, "🔗 Connecting to: %s\n", url)

	// The timer in stream cancels with errStalled when the body stops moving.
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	resp, err := f.client.Do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return types.NewError(types.KindHTTPStatus, &types.StatusError{StatusCode: resp.StatusCode, URL: resp.Request.URL.String()})
	}

	res.ContentType = resp.Header.Get("Content-Type")
	hint := res.ContentType
	if mtype, _ := httpheader.ContentType(resp.Header); mtype != "" {
		hint = mtype
	}
	utils.Debug("Response %d, content-type=%q, length=%d", resp.StatusCode, res.ContentType, resp.ContentLength)

	filename := utils.ResolveFilename(url, hint)
	file, path, err := f.createUnique(dir, filename)
	if err != nil {
		return types.NewError(types.KindFileIO, err)
	}
	closed := false
	defer func() {
		if !closed {
			_ = file.Close()
		}
	}()
	res.Path = path
	res.Filename = filepath.Base(path)

	fmt.Fprintf(f.Out, "💾 Saving as: %s\n", res.Filename)

	streamErr := f.stream(ctx, cancel, resp, file, res)
	closeErr := file.Close()
	closed = true
	if streamErr != nil {
		return streamErr
	}
	if closeErr != nil {
		return types.NewError(types.KindFileIO, closeErr)
	}

	info, err := os.Stat(path)
	if err != nil {
		return types.NewError(types.KindFileIO, err)
	}
	res.Size = info.Size()
	return nil
}

// createUnique picks a free name under dir and creates it. The existence
// check and the create share one critical section when a lock is configured.
func (f *Fetcher) createUnique(dir string, filename string) (*os.File, string, error) {
	unlock, err := acquireLock(f.Runtime.LockPath)
	if err != nil {
		return nil, "", err
	}
	defer unlock()

	exists := f.Exists
	if exists == nil {
		exists = utils.PathExists
	}
	path := utils.ResolveUniquePath(dir, filename, exists)

	file, err := os.Create(path)
	if err != nil {
		return nil, path, err
	}
	return file, path, nil
}

var errStalled = errors.New("no data received within timeout")

// stream copies the body to file in fixed-size chunks. Each read resets a
// stall timer; if it fires the request context is cancelled with errStalled.
func (f *Fetcher) stream(ctx context.Context, cancel context.CancelCauseFunc, resp *http.Response, file *os.File, res *types.Result) error {
	timeout := f.Runtime.GetTimeout()
	stall := time.AfterFunc(timeout, func() { cancel(errStalled) })
	defer stall.Stop()

	var bar *progressbar.ProgressBar
	if f.Progress != nil {
		bar = progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetWriter(f.Progress),
			progressbar.OptionSetDescription(res.Filename),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
	}

	buf := make([]byte, f.Runtime.GetChunkSize())
	sniffed := false
	for {
		n, readErr := resp.Body.Read(buf)
		stall.Reset(timeout)

		if n > 0 {
			if !sniffed {
				sniffed = true
				if kind, _ := filetype.Match(buf[:n]); kind != filetype.Unknown {
					res.DetectedType = kind.MIME.Value
					utils.Debug("Magic type: %s (%s)", kind.Extension, kind.MIME.Value)
				}
			}
			if _, err := file.Write(buf[:n]); err != nil {
				return types.NewError(types.KindFileIO, err)
			}
			if bar != nil {
				_ = bar.Add(n)
			}
		}

		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return classifyBodyError(ctx, readErr)
		}
	}
}
