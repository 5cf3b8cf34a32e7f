// Package utils provides helpers shared across the fetcher: filename
// resolution for downloaded resources, path normalization, and debug logging.
package utils

import (
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
)

const (
	// DefaultBaseName names resources whose URL carries no usable filename.
	DefaultBaseName = "downloaded_image"
	// DefaultExtension is used when neither the URL nor the content type helps.
	DefaultExtension = ".jpg"
)

// preferredExtensions pins the extension for types that map to several.
var preferredExtensions = map[string]string{
	"image/jpeg":               ".jpg",
	"image/pjpeg":              ".jpg",
	"image/png":                ".png",
	"image/gif":                ".gif",
	"image/webp":               ".webp",
	"image/avif":               ".avif",
	"image/bmp":                ".bmp",
	"image/x-ms-bmp":           ".bmp",
	"image/svg+xml":            ".svg",
	"image/tiff":               ".tiff",
	"image/x-icon":             ".ico",
	"image/vnd.microsoft.icon": ".ico",
	"image/heic":               ".heic",
	"image/heif":               ".heif",
	"image/jxl":                ".jxl",
	"text/html":                ".html",
	"text/plain":               ".txt",
	"text/css":                 ".css",
	"application/json":         ".json",
	"application/xml":          ".xml",
	"application/pdf":          ".pdf",
	"application/zip":          ".zip",
	"application/octet-stream": ".bin",
}

// ExistsFunc reports whether a path is already taken.
type ExistsFunc func(path string) bool

// PathExists is the default ExistsFunc, backed by the local filesystem.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ResolveFilename derives a filename for a resource from its URL, falling back
// to a name built from the content type. The last path segment is used
// verbatim whenever it contains a dot, even if its extension disagrees with
// the content type. Path parameters (";v=1") on the last segment are dropped.
func ResolveFilename(rawurl string, contentType string) string {
	if p, ok := decodedPath(rawurl); ok && strings.Contains(p, "/") {
		segment := p[strings.LastIndex(p, "/")+1:]
		if segment != "" && strings.Contains(segment, ".") {
			return segment
		}
	}

	if contentType != "" {
		if ext := ExtensionForType(contentType); ext != "" {
			return DefaultBaseName + ext
		}
	}

	return DefaultBaseName + DefaultExtension
}

// decodedPath returns the percent-decoded URL path without the parameters of
// its last segment. Encoded separators (%2F, %3B) are decoded after the split.
func decodedPath(rawurl string) (string, bool) {
	parsed, err := url.Parse(rawurl)
	if err != nil {
		return "", false
	}

	raw := parsed.EscapedPath()
	last := strings.LastIndex(raw, "/") + 1
	if i := strings.Index(raw[last:], ";"); i >= 0 {
		raw = raw[:last+i]
	}

	p, err := url.PathUnescape(raw)
	if err != nil {
		return parsed.Path, true
	}
	return p, true
}

// ExtensionForType maps a Content-Type value to a file extension including
// the leading dot. Parameters such as charset are ignored. It returns an empty
// string for unknown types.
func ExtensionForType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	}
	mediaType = strings.ToLower(mediaType)
	if mediaType == "" {
		return ""
	}

	if ext, ok := preferredExtensions[mediaType]; ok {
		return ext
	}

	// Magic-number registry, scanned in a stable order.
	var registered []string
	filetype.Types.Range(func(k, v any) bool {
		if kind, ok := v.(types.Type); ok && kind.MIME.Value == mediaType {
			registered = append(registered, k.(string))
		}
		return true
	})
	if len(registered) > 0 {
		sort.Strings(registered)
		return "." + registered[0]
	}

	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

// ResolveUniquePath joins dir and name, appending _1, _2, ... to the base name
// until exists reports the candidate as free. The check does not reserve the
// name; callers that race other writers must serialize around it.
func ResolveUniquePath(dir string, name string, exists ExistsFunc) string {
	if exists == nil {
		exists = PathExists
	}

	candidate := filepath.Join(dir, name)
	base, ext := SplitExt(name)
	for counter := 1; exists(candidate); counter++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, counter, ext))
	}
	return candidate
}

// SplitExt splits name into base and extension at the last dot. Leading dots
// do not start an extension, so ".bashrc" has none.
func SplitExt(name string) (string, string) {
	dot := strings.LastIndex(name, ".")
	if dot <= 0 {
		return name, ""
	}
	if strings.TrimLeft(name[:dot], ".") == "" {
		return name, ""
	}
	return name[:dot], name[dot:]
}
