package cli

import (
	"context"
	"fmt"
	"imagefetch/internal/clipboard"
	"imagefetch/internal/config"
	"imagefetch/internal/download"
	"imagefetch/internal/download/types"
	"imagefetch/internal/state"
	"imagefetch/internal/utils"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// Version information - set via ldflags during build.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Command line flags
var verbose bool

// Globals shared with the shutdown coordinator.
var (
	GlobalSettings *config.Settings
	GlobalFetcher  *download.Fetcher
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "imagefetch [url]...",
	Short: "Interactively download images into a local folder",
	Long: `imagefetch prompts for image URLs and saves each one into the output
folder (Fetched_Images by default), picking a filename that does not clash
with files already there. URLs given as arguments are fetched first.`,
	Version: Version,
	Args:    cobra.ArbitraryArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.SetVerbose(verbose)

		settings, err := config.LoadSettings()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v (using defaults)\n", err)
			settings = config.DefaultSettings()
		}
		GlobalSettings = settings
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		settings := GlobalSettings
		if settings == nil {
			settings = config.DefaultSettings()
		}

		outputDir, _ := cmd.Flags().GetString("output")
		if outputDir == "" {
			outputDir = settings.General.OutputDir
		}
		record, _ := cmd.Flags().GetBool("record")
		record = record || settings.General.RecordHistory

		initializeGlobalState(settings, record)
		defer func() { _ = executeGlobalShutdown("session ended") }()

		printBanner(out)

		if !download.PrepareDirectory(out, outputDir) {
			// Not being able to create the folder ends the run without an error code.
			return nil
		}

		pending := append([]string{}, args...)
		if useClipboard, _ := cmd.Flags().GetBool("clipboard"); useClipboard {
			url, err := clipboard.ReadURL()
			if err != nil {
				if err == clipboard.ErrInvalidURL {
					fmt.Fprintln(out, "✗ Clipboard does not contain a valid URL")
				} else {
					fmt.Fprintf(out, "✗ Error reading from clipboard: %v\n", err)
				}
			} else {
				fmt.Fprintf(out, "📋 URL from clipboard: %s\n", url)
				pending = append([]string{url}, pending...)
			}
		}

		GlobalFetcher = download.NewFetcher(runtimeConfig(cmd, settings), out)
		if w := terminalWriter(cmd.ErrOrStderr()); w != nil {
			GlobalFetcher.Progress = w
		}

		session := &Session{
			In:      cmd.InOrStdin(),
			Out:     out,
			Dir:     outputDir,
			Fetcher: GlobalFetcher,
			Pending: pending,
		}
		if record {
			session.OnResult = recordResult
		}

		stop := handleSignals(out)
		defer stop()

		session.Run(cmd.Context())
		return nil
	},
}

func printBanner(w io.Writer) {
	rule := strings.Repeat("=", 50)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "🌐 Image Fetcher")
	fmt.Fprintln(w, rule)
}

// runtimeConfig layers command line overrides on top of settings.
func runtimeConfig(cmd *cobra.Command, settings *config.Settings) *types.RuntimeConfig {
	rc := types.ConvertSettings(settings)
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		rc.Timeout = timeout
	}
	if useHTTP3, _ := cmd.Flags().GetBool("http3"); useHTTP3 {
		rc.HTTP3 = true
	}
	rc.LockPath = config.GetLockPath()
	return rc
}

// terminalWriter returns w when it is an interactive terminal.
func terminalWriter(w io.Writer) io.Writer {
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return f
	}
	return nil
}

func recordResult(res types.Result) {
	if err := state.RecordFetch(state.EntryFromResult(res)); err != nil {
		utils.Debug("Failed to record fetch history: %v", err)
	}
}

// handleSignals shuts down cleanly on Ctrl+C. An in-flight download is not
// cancelled; the process exits.
func handleSignals(out io.Writer) func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigChan:
			fmt.Fprintf(out, "\nReceived signal: %s. Shutting down...\n", sig)
			_ = executeGlobalShutdown(fmt.Sprintf("signal: %s", sig))
			os.Exit(0)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.Flags().StringP("output", "o", "", "Output directory (default: Fetched_Images)")
	rootCmd.Flags().Bool("clipboard", false, "Fetch the URL on the clipboard first")
	rootCmd.Flags().Bool("http3", false, "Use HTTP/3 (QUIC) instead of TCP")
	rootCmd.Flags().Bool("record", false, "Record fetch attempts in the history database")
	rootCmd.Flags().Duration("timeout", 0, "Connect, response and stall timeout (default: 30s)")
}

func initializeGlobalState(settings *config.Settings, record bool) {
	logsDir := config.GetLogsDir()
	utils.ConfigureDebug(logsDir)
	if verbose {
		utils.CleanupLogs(settings.General.LogRetentionCount)
		utils.Debug("imagefetch %s (built %s) starting", Version, BuildTime)
	}

	if record {
		if err := config.EnsureDirs(); err != nil {
			utils.Debug("Failed to create application directories: %v", err)
			return
		}
		state.Configure(config.GetHistoryPath())
	}
}
