// Package cmd implements the coinhist command line.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/etnz/coinhist"
	"github.com/etnz/coinhist/coingecko"
	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&newCmd{}, "history")
	c.Register(&updateCmd{}, "history")
	c.Register(&allCmd{in: os.Stdin}, "history")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

const apiKeyEnv = "COINGECKO_API_KEY"

var (
	configFile = flag.String("config", "", "Path to a YAML config file")
	dataDir    = flag.String("data-dir", coinhist.DefaultDataDir, "Directory holding the history files")
	currency   = flag.String("currency", coinhist.DefaultCurrency, "Quote currency of the history files")
	maxDays    = flag.Int("max-days", coinhist.DefaultMaxDays, "Number of days of a full download")
	apiKey     = flag.String("coingecko-api-key", "", "CoinGecko API key. This flag takes precedence over the "+apiKeyEnv+" environment variable")
	pro        = flag.Bool("pro", false, "use the CoinGecko pro API with a pro API key")
	logFile    = flag.String("log-file", "", "also write the log to this file, rotated every 10 MB")
)

// LoadConfig builds the settings from, by increasing precedence, the
// defaults, the -config file, the environment and the command line flags.
func LoadConfig() (coinhist.Config, error) {
	cfg := coinhist.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = coinhist.LoadConfig(*configFile); err != nil {
			return cfg, err
		}
	}

	// .env never overrides the process environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, cannot load .env file: %v", err)
	}
	if key := os.Getenv(apiKeyEnv); key != "" {
		cfg.APIKey = key
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data-dir":
			cfg.DataDir = *dataDir
		case "currency":
			cfg.Currency = *currency
		case "max-days":
			cfg.MaxDays = *maxDays
		case "coingecko-api-key":
			cfg.APIKey = *apiKey
		case "pro":
			cfg.Pro = *pro
		}
	})
	return cfg, cfg.Validate()
}

// SetupLog tags the log with runID and tees it to -log-file when set.
// The returned closer must be closed when the command ends.
func SetupLog(runID string) io.Closer {
	log.SetPrefix(runID[:8] + " ")
	if *logFile == "" {
		return io.NopCloser(nil)
	}
	lj := &lumberjack.Logger{
		Filename:   *logFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, lj))
	return lj
}

// OpenArchive loads the settings, makes sure the data directory exists and
// returns an archive on it, backed by CoinGecko.
func OpenArchive() (*coinhist.Archive, io.Closer, error) {
	runID := uuid.NewString()
	closer := SetupLog(runID)

	cfg, err := LoadConfig()
	if err != nil {
		closer.Close()
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		closer.Close()
		return nil, nil, fmt.Errorf("cannot create data directory: %w", err)
	}

	a := coinhist.NewArchive(cfg, coingecko.NewFromConfig(cfg))
	a.RunID = runID
	return a, closer, nil
}
