package cli

import (
	"bytes"
	"context"
	"errors"
	"imagefetch/internal/download/types"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeFetcher struct {
	urls   []string
	result types.Result
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string, dir string) types.Result {
	f.urls = append(f.urls, url)
	res := f.result
	res.URL = url
	return res
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		added bool
	}{
		{"example.com", "https://example.com", true},
		{"example.com/a.png", "https://example.com/a.png", true},
		{"http://example.com/a.png", "http://example.com/a.png", false},
		{"https://example.com/a.png", "https://example.com/a.png", false},
		{"HTTP://example.com", "https://HTTP://example.com", true},
	}
	for _, tt := range tests {
		got, added := NormalizeURL(tt.in)
		if got != tt.want || added != tt.added {
			t.Errorf("NormalizeURL(%q) = (%q, %v), want (%q, %v)", tt.in, got, added, tt.want, tt.added)
		}
	}
}

func TestSessionQuitWords(t *testing.T) {
	for _, word := range []string{"quit", "EXIT", "Q"} {
		out := &bytes.Buffer{}
		f := &fakeFetcher{}
		s := &Session{In: strings.NewReader(word + "\n"), Out: out, Fetcher: f}
		s.Run(context.Background())

		if len(f.urls) != 0 {
			t.Errorf("%s: expected no fetches, got %v", word, f.urls)
		}
		if !strings.Contains(out.String(), farewell) {
			t.Errorf("%s: expected farewell message", word)
		}
	}
}

func TestSessionEmptyInputReprompts(t *testing.T) {
	out := &bytes.Buffer{}
	f := &fakeFetcher{}
	s := &Session{In: strings.NewReader("\n   \nexample.com\nn\n"), Out: out, Fetcher: f}
	s.Run(context.Background())

	if strings.Count(out.String(), "Please enter a valid URL") != 2 {
		t.Errorf("expected two empty-input notices:\n%s", out.String())
	}
	if len(f.urls) != 1 || f.urls[0] != "https://example.com" {
		t.Errorf("expected one fetch of https://example.com, got %v", f.urls)
	}
	if !strings.Contains(out.String(), "ℹ️ Added protocol: https://example.com") {
		t.Errorf("expected protocol notice:\n%s", out.String())
	}
}

func TestSessionContinuesAfterFailure(t *testing.T) {
	out := &bytes.Buffer{}
	f := &fakeFetcher{result: types.Result{
		Kind: types.KindHTTPStatus,
		Err:  errors.New("404 Client Error: Not Found for url: https://a/b.png"),
	}}
	var observed []types.Result
	s := &Session{
		In:       strings.NewReader("https://a/b.png\nYES\nhttps://a/c.png\nno\n"),
		Out:      out,
		Fetcher:  f,
		OnResult: func(r types.Result) { observed = append(observed, r) },
	}
	s.Run(context.Background())

	if len(f.urls) != 2 {
		t.Fatalf("expected two fetches, got %v", f.urls)
	}
	if strings.Count(out.String(), continuePrompt) != 2 {
		t.Errorf("expected the continue prompt after each attempt:\n%s", out.String())
	}
	if strings.Count(out.String(), "✗ HTTP Error: 404") != 2 {
		t.Errorf("expected HTTP error report twice:\n%s", out.String())
	}
	if len(observed) != 2 {
		t.Errorf("expected OnResult for each attempt, got %d", len(observed))
	}
}

func TestSessionEndsOnEOF(t *testing.T) {
	out := &bytes.Buffer{}
	f := &fakeFetcher{}
	s := &Session{In: strings.NewReader("https://a/b.png\n"), Out: out, Fetcher: f}
	s.Run(context.Background())

	if len(f.urls) != 1 {
		t.Errorf("expected one fetch, got %v", f.urls)
	}
	if !strings.HasSuffix(out.String(), farewell+"\n") {
		t.Errorf("expected farewell at end:\n%s", out.String())
	}
}

func TestSessionLongURLLine(t *testing.T) {
	long := "https://example.com/" + strings.Repeat("a", 70*1024) + ".png"
	out := &bytes.Buffer{}
	f := &fakeFetcher{}
	s := &Session{In: strings.NewReader(long + "\nn\n"), Out: out, Fetcher: f}
	s.Run(context.Background())

	if len(f.urls) != 1 || f.urls[0] != long {
		t.Fatalf("expected the long URL to be fetched once, got %d fetches", len(f.urls))
	}
}

func TestSessionReportsOversizedLine(t *testing.T) {
	huge := strings.Repeat("a", maxInputLine+1)
	out := &bytes.Buffer{}
	f := &fakeFetcher{}
	s := &Session{In: strings.NewReader(huge + "\n"), Out: out, Fetcher: f}
	s.Run(context.Background())

	if len(f.urls) != 0 {
		t.Errorf("expected no fetches, got %d", len(f.urls))
	}
	if !strings.Contains(out.String(), "✗ Error reading input:") {
		t.Errorf("expected input error to be reported:\n%.200s", out.String())
	}
	if !strings.HasSuffix(out.String(), farewell+"\n") {
		t.Error("expected farewell after input error")
	}
}

func TestSessionPendingURLs(t *testing.T) {
	out := &bytes.Buffer{}
	f := &fakeFetcher{}
	s := &Session{
		In:      strings.NewReader("y\nq\n"),
		Out:     out,
		Fetcher: f,
		Pending: []string{"example.com/x.png"},
	}
	s.Run(context.Background())

	if len(f.urls) != 1 || f.urls[0] != "https://example.com/x.png" {
		t.Errorf("expected pending URL to be fetched, got %v", f.urls)
	}
}

func TestRootCommandDownloads(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("XDG_RUNTIME_DIR", home)
	t.Setenv("HOME", home)
	resetGlobalShutdownCoordinatorForTest(nil)
	defer resetGlobalShutdownCoordinatorForTest(nil)

	data := bytes.Repeat([]byte("x"), 2048)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "Fetched_Images")
	out := &bytes.Buffer{}
	rootCmd.SetArgs([]string{"--output", dir, "--timeout", "5s", "--record"})
	rootCmd.SetIn(strings.NewReader(server.URL + "/missing.png\ny\n" + server.URL + "/avatar\nn\n"))
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "✓ Directory '"+dir+"' is ready") {
		t.Errorf("expected directory notice:\n%s", output)
	}
	if !strings.Contains(output, "✗ HTTP Error: 404 Client Error: Not Found") {
		t.Errorf("expected 404 report:\n%s", output)
	}
	if !strings.Contains(output, "📦 File size: 2.00 KB") {
		t.Errorf("expected size report:\n%s", output)
	}

	written, err := os.ReadFile(filepath.Join(dir, "downloaded_image.png"))
	if err != nil {
		t.Fatalf("expected downloaded file: %v", err)
	}
	if len(written) != len(data) {
		t.Errorf("expected %d bytes, got %d", len(data), len(written))
	}

	// history was recorded and the database released on shutdown
	out.Reset()
	rootCmd.SetArgs([]string{"history", "--limit", "5"})
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out.String(), "downloaded_image.png") || !strings.Contains(out.String(), "[http_status]") {
		t.Errorf("unexpected history output:\n%s", out.String())
	}
}

func TestShutdownRunsOnce(t *testing.T) {
	calls := 0
	resetGlobalShutdownCoordinatorForTest(func() error {
		calls++
		return errors.New("close failed")
	})
	defer resetGlobalShutdownCoordinatorForTest(nil)

	first := executeGlobalShutdown("test")
	second := executeGlobalShutdown("test again")
	if calls != 1 {
		t.Errorf("expected one shutdown call, got %d", calls)
	}
	if first == nil || first != second {
		t.Errorf("expected the same wrapped error, got %v / %v", first, second)
	}
}

func TestPrintHistoryEmpty(t *testing.T) {
	out := &bytes.Buffer{}
	printHistory(out, nil)
	if !strings.Contains(out.String(), "No fetches recorded yet.") {
		t.Errorf("unexpected output %q", out.String())
	}
}
