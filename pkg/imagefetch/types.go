package imagefetch

import (
	"imagefetch/internal/config"
	"imagefetch/internal/download/types"
)

// Re-exported types for the public API to keep internal packages private
// while maintaining a stable surface for consumers.
type Settings = config.Settings

type Result = types.Result
type ErrorKind = types.ErrorKind
type Error = types.Error
type StatusError = types.StatusError

const (
	KindNone              = types.KindNone
	KindDirectoryCreation = types.KindDirectoryCreation
	KindHTTPStatus        = types.KindHTTPStatus
	KindConnection        = types.KindConnection
	KindTimeout           = types.KindTimeout
	KindRequest           = types.KindRequest
	KindFileIO            = types.KindFileIO
	KindUnexpected        = types.KindUnexpected
)

// KindOf reports the failure kind carried by err.
func KindOf(err error) ErrorKind {
	return types.KindOf(err)
}
