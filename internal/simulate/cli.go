package simulate

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/pinochle/pkg/logger"
)

const logFilePermission = 0o600

// SetupLogging logs to stdout and to logFile. An empty logFile gets a
// timestamped name. The returned closer closes the file.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	if logFile == "" {
		logFile = "simulate_" + time.Now().Format("20060102_150405") + ".log"
	}
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	if err := logger.Init(logger.WithWriter(io.MultiWriter(os.Stdout, file))); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return file, nil
}

// ShowHelp prints usage information for the simulator.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Pinochle Game Simulator
=======================

Plays random valid games against a running scorekeeper and checks every
reported total against a local replay.

Usage:
  simulate [options]

Options:
  -url string        Base URL of the service (default "http://localhost:9080")
  -games int         Games to play (default 5)
  -players int       Seats per game: 2, 3 or 4 (default 3)
  -max-hands int     Hands before a game without a winner is ended (default 200)
  -seed uint         Random seed (default: current time)
  -timeout duration  HTTP request timeout (default 10s)
  -log string        Log file (default: simulate_TIMESTAMP.log)
  -verbose           Log every hand
  -help              Show this help message
`)
}
