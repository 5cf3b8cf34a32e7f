package download

import (
	"fmt"
	"imagefetch/internal/download/types"
	"io"
)

// WriteReport prints the outcome of a fetch attempt.
func WriteReport(w io.Writer, r types.Result) {
	switch r.Kind {
	case types.KindNone:
		fmt.Fprintf(w, "✅ Download successful! Saved to: %s\n", r.Path)
		fmt.Fprintf(w, "📦 File size: %.2f KB\n", r.SizeKB())
	case types.KindHTTPStatus:
		fmt.Fprintf(w, "✗ HTTP Error: %v\n", r.Err)
		fmt.Fprintln(w, "ℹ️ The server returned an error response. Please check the URL.")
	case types.KindConnection:
		fmt.Fprintln(w, "✗ Connection Error: Unable to connect to the server")
		fmt.Fprintln(w, "ℹ️ Please check your internet connection and the URL.")
	case types.KindTimeout:
		fmt.Fprintln(w, "✗ Timeout Error: The request took too long")
		fmt.Fprintln(w, "ℹ️ The server is not responding. Please try again later.")
	case types.KindRequest:
		fmt.Fprintf(w, "✗ Request Error: %v\n", r.Err)
	case types.KindFileIO:
		fmt.Fprintf(w, "✗ File I/O Error: %v\n", r.Err)
		fmt.Fprintln(w, "ℹ️ Cannot write to file. Check directory permissions.")
	default:
		fmt.Fprintf(w, "✗ Unexpected Error: %v\n", r.Err)
	}
}
