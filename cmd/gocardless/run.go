package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	gocardless "github.com/gocardless-go/client-go"
)

// Config holds the process streams the CLI reads from and writes to.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultConfig returns a Config bound to the process streams.
func DefaultConfig() Config {
	return Config{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	token   string
	baseURL string
	envFile string
	timeout time.Duration
	debug   bool
}

func run(args []string, cfg Config) error {
	root := newRootCmd(cfg)
	root.SetArgs(args)
	return root.Execute()
}

func newRootCmd(cfg Config) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "gocardless",
		Short:         "Issue authenticated requests against the GoCardless API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(cfg.Stdin)
	root.SetOut(cfg.Stdout)
	root.SetErr(cfg.Stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.token, "token", "", "access token (default $GOCARDLESS_ACCESS_TOKEN)")
	pf.StringVar(&flags.baseURL, "base-url", "", "override the API base URL")
	pf.StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	pf.DurationVar(&flags.timeout, "timeout", 0, "HTTP timeout (default $GOCARDLESS_TIMEOUT or 30s)")
	pf.BoolVar(&flags.debug, "debug", false, "log requests and responses to stderr")

	root.AddCommand(
		newGetCmd(cfg, flags),
		newPostCmd(cfg, flags),
		newPutCmd(cfg, flags),
		newDeleteCmd(cfg, flags),
	)
	return root
}

// newClient resolves settings from the dotenv file, the environment and the
// flags, in increasing precedence, and builds a client.
func newClient(cfg Config, flags *globalFlags) (*gocardless.Client, error) {
	if flags.envFile != "" {
		if err := godotenv.Load(flags.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", flags.envFile, err)
		}
	}

	var env gocardless.Config
	if err := envconfig.Process(gocardless.EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if flags.token != "" {
		env.AccessToken = flags.token
	}
	if flags.baseURL != "" {
		env.BaseURL = flags.baseURL
	}
	if flags.timeout > 0 {
		env.Timeout = flags.timeout
	}
	env.Debug = env.Debug || flags.debug

	level := zerolog.WarnLevel
	if env.Debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        cfg.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}).Level(level).With().Timestamp().Logger()

	opts := append(env.Options(), gocardless.WithLogger(logger))
	client, err := gocardless.New(env.AccessToken, opts...)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Str("environment", string(client.Environment())).
		Str("base_url", client.BaseURL()).
		Msg("client ready")
	return client, nil
}
