package types

import "time"

// Result describes one fetch attempt. On failure Kind and Err are set and
// Path may still name a partially written file.
type Result struct {
	URL          string
	Path         string
	Filename     string
	ContentType  string
	DetectedType string
	Size         int64
	Elapsed      time.Duration
	Kind         ErrorKind
	Err          error
}

func (r Result) OK() bool {
	return r.Kind == KindNone && r.Err == nil
}

// SizeKB returns the written size in kilobytes.
func (r Result) SizeKB() float64 {
	return float64(r.Size) / 1024
}
