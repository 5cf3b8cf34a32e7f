package utils

import (
	"fmt"
	"imagefetch/internal/config"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var (
	debugFile   *os.File
	debugLogger zerolog.Logger
	debugOnce   sync.Once
	logsDir     atomic.Value // string
	verbose     atomic.Bool
)

func ConfigureDebug(dir string) {
	logsDir.Store(dir)
}

// SetVerbose enables or disables verbose logging
func SetVerbose(enabled bool) {
	verbose.Store(enabled)
}

// IsVerbose returns true if verbose logging is enabled
func IsVerbose() bool {
	return verbose.Load()
}

func configuredLogsDir() string {
	if val := logsDir.Load(); val != nil {
		if dir := val.(string); dir != "" {
			return dir
		}
	}
	return config.GetLogsDir()
}

// Debug writes a formatted line to the session's debug log when verbose
// logging is on. The log file is created lazily on first use.
func Debug(format string, args ...any) {
	if !IsVerbose() {
		return
	}
	debugOnce.Do(func() {
		dir := configuredLogsDir()
		os.MkdirAll(dir, 0755)
		f, err := os.Create(filepath.Join(dir, fmt.Sprintf("debug-%s.log", time.Now().Format("20060102-150405"))))
		if err != nil {
			return
		}
		debugFile = f
		debugLogger = zerolog.New(zerolog.ConsoleWriter{
			Out:        f,
			NoColor:    true,
			TimeFormat: "2006-01-02 15:04:05",
		}).With().Timestamp().Logger()
	})
	if debugFile != nil {
		debugLogger.Debug().Msgf(format, args...)
	}
}

// CloseDebug flushes and closes the debug log, if one was opened.
func CloseDebug() {
	if debugFile != nil {
		_ = debugFile.Sync()
		_ = debugFile.Close()
		debugFile = nil
	}
}

// CleanupLogs removes old log files, keeping only the most recent retentionCount files
func CleanupLogs(retentionCount int) {
	if retentionCount < 0 {
		return // Keep all logs
	}

	val := logsDir.Load()
	if val == nil {
		return
	}
	dir := val.(string)

	if dir == "" {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	var logs []fs.DirEntry
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), "debug-") && strings.HasSuffix(entry.Name(), ".log") {
			logs = append(logs, entry)
		}
	}

	// debug-YYYYMMDD-HHMMSS.log sorts chronologically; newest first
	sort.Slice(logs, func(i, j int) bool {
		return logs[i].Name() > logs[j].Name()
	})

	if len(logs) <= retentionCount {
		return
	}

	for _, log := range logs[retentionCount:] {
		path := filepath.Join(dir, log.Name())
		_ = os.Remove(path)
	}
}
