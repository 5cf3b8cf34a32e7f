package cli

import (
	"bufio"
	"context"
	"fmt"
	"imagefetch/internal/download"
	"imagefetch/internal/download/types"
	"io"
	"strings"
)

const (
	urlPrompt      = "Please enter the image URL (or 'quit' to exit): "
	continuePrompt = "Download another image? (y/n): "
	farewell       = "👋 Thank you for using Image Fetcher!"
)

// maxInputLine bounds a single line of input.
const maxInputLine = 1 << 20

var separator = strings.Repeat("-", 30)

// Fetcher is the part of download.Fetcher the session depends on.
type Fetcher interface {
	Fetch(ctx context.Context, url string, dir string) types.Result
}

// Session runs the interactive prompt loop. Requests are handled one at a
// time; a failed fetch is reported and the loop carries on.
type Session struct {
	In      io.Reader
	Out     io.Writer
	Dir     string
	Fetcher Fetcher

	// Pending URLs are used in place of the URL prompt until exhausted.
	Pending []string

	// OnResult, when set, observes every attempt after it is reported.
	OnResult func(types.Result)
}

// Run loops until the user quits, declines another download, or input ends.
func (s *Session) Run(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	scanner := bufio.NewScanner(s.In)
	scanner.Buffer(make([]byte, 0, 64*1024), maxInputLine)

	for {
		fmt.Fprintln(s.Out, "\n"+separator)

		var input string
		if len(s.Pending) > 0 {
			input = strings.TrimSpace(s.Pending[0])
			s.Pending = s.Pending[1:]
			fmt.Fprintf(s.Out, "%s%s\n", urlPrompt, input)
		} else {
			line, ok := s.prompt(scanner, urlPrompt)
			if !ok {
				fmt.Fprintln(s.Out)
				fmt.Fprintln(s.Out, farewell)
				return
			}
			input = line
		}

		if isQuit(input) {
			fmt.Fprintln(s.Out, farewell)
			return
		}

		if input == "" {
			fmt.Fprintln(s.Out, "ℹ️ Please enter a valid URL")
			continue
		}

		url, added := NormalizeURL(input)
		if added {
			fmt.Fprintf(s.Out, "ℹ️ Added protocol: %s\n", url)
		}

		res := s.Fetcher.Fetch(ctx, url, s.Dir)
		download.WriteReport(s.Out, res)
		if s.OnResult != nil {
			s.OnResult(res)
		}

		fmt.Fprintln(s.Out, "\n"+separator)
		answer, ok := s.prompt(scanner, continuePrompt)
		if !ok || !isYes(answer) {
			if !ok {
				fmt.Fprintln(s.Out)
			}
			fmt.Fprintln(s.Out, farewell)
			return
		}
	}
}

func (s *Session) prompt(scanner *bufio.Scanner, text string) (string, bool) {
	fmt.Fprint(s.Out, text)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			fmt.Fprintf(s.Out, "\n✗ Error reading input: %v", err)
		}
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}

// NormalizeURL prefixes https:// when input has neither http:// nor https://.
// The second result reports whether a prefix was added.
func NormalizeURL(input string) (string, bool) {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return input, false
	}
	return "https://" + input, true
}

func isQuit(input string) bool {
	switch strings.ToLower(input) {
	case "quit", "exit", "q":
		return true
	}
	return false
}

func isYes(input string) bool {
	switch strings.ToLower(input) {
	case "y", "yes":
		return true
	}
	return false
}
