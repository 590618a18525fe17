package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/pinochle/internal/simulate"
	"github.com/okian/pinochle/pkg/logger"
)

const defaultRunTimeout = 10 * time.Minute

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		games    = flag.Int("games", simulate.DefaultGames, "Number of games to play")
		players  = flag.Int("players", simulate.DefaultPlayers, "Seats per game: 2, 3 or 4")
		maxHands = flag.Int("max-hands", simulate.DefaultMaxHands, "Hands before a game without a winner is ended")
		seed     = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Random seed")
		timeout  = flag.Duration("timeout", simulate.DefaultTimeout, "HTTP request timeout")
		logFile  = flag.String("log", "", "Log file (default: simulate_TIMESTAMP.log)")
		verbose  = flag.Bool("verbose", false, "Log every hand")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp(os.Stdout)
		return
	}

	closer, err := simulate.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	log := logger.Named("simulate")
	cfg := simulate.Config{
		BaseURL:  *baseURL,
		Games:    *games,
		Players:  *players,
		MaxHands: *maxHands,
		Seed:     *seed,
		Timeout:  *timeout,
		Verbose:  *verbose,
	}
	if _, err := simulate.Run(ctx, cfg, log); err != nil {
		log.Error(ctx, "simulation failed", logger.Error(err))
		// Deferred closes are skipped by Exit.
		_ = closer.Close()
		os.Exit(1)
	}
}
