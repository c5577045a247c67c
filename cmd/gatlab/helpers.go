package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/gatlab"
	"github.com/aretw0/gatlab/internal/logging"
	"github.com/aretw0/gatlab/pkg/adapters/file"
	"github.com/aretw0/gatlab/pkg/adapters/memory"
	"github.com/aretw0/gatlab/pkg/adapters/redis"
	"github.com/aretw0/gatlab/pkg/observability"
	"github.com/aretw0/gatlab/pkg/persistence/middleware"
	"github.com/aretw0/gatlab/pkg/ports"
	"github.com/aretw0/gatlab/pkg/sexpr"
)

// newLogger builds the logger selected by --debug and --log-format.
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	formatFlag, _ := cmd.Flags().GetString("log-format")
	format, err := logging.ParseFormat(formatFlag)
	if err != nil {
		return nil, err
	}
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return logging.New(level, format), nil
}

// openStore parses the --store flag.
func openStore(target string) (ports.TermStore, ports.DistributedLocker, error) {
	switch {
	case target == "memory":
		return memory.NewStore(), nil, nil
	case strings.HasPrefix(target, "redis://"), strings.HasPrefix(target, "rediss://"):
		opts, err := backend.ParseURL(target)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := backend.NewClient(opts)
		return redis.NewFromClient(client), redis.NewLocker(client, "gatlab:"), nil
	default:
		return file.New(target), nil, nil
	}
}

// Environment variables holding the store encryption keys.
const (
	envStoreKey     = "GATLAB_STORE_KEY"
	envStoreOldKeys = "GATLAB_STORE_OLD_KEYS"
)

// wrapStore decorates store with operation logging and, when GATLAB_STORE_KEY
// is set, encryption at rest. Old keys are comma separated.
func wrapStore(store ports.TermStore, logger *slog.Logger) (ports.TermStore, error) {
	mws := []middleware.Middleware{middleware.NewLoggingMiddleware(logger)}

	if raw := os.Getenv(envStoreKey); raw != "" {
		key, err := middleware.ParseKey(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", envStoreKey, err)
		}
		cfg := middleware.EncryptionConfig{ActiveKey: key}
		for _, old := range strings.Split(os.Getenv(envStoreOldKeys), ",") {
			if old = strings.TrimSpace(old); old == "" {
				continue
			}
			k, err := middleware.ParseKey(old)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", envStoreOldKeys, err)
			}
			cfg.FallbackKeys = append(cfg.FallbackKeys, k)
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(cfg))
	}
	return middleware.Chain(store, mws...), nil
}

// newEngine builds an engine from the persistent flags. The registry, when not
// nil, receives the construction metrics.
func newEngine(cmd *cobra.Command, reg prometheus.Registerer) (*gatlab.Engine, *slog.Logger, error) {
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, nil, err
	}
	theoryRef, _ := cmd.Flags().GetString("theory")
	storeSpec, _ := cmd.Flags().GetString("store")

	store, locker, err := openStore(storeSpec)
	if err != nil {
		return nil, nil, err
	}
	if store, err = wrapStore(store, logger); err != nil {
		return nil, nil, err
	}

	opts := []gatlab.Option{
		gatlab.WithLogger(logger),
		gatlab.WithStore(store),
	}
	if locker != nil {
		opts = append(opts, gatlab.WithLocker(locker))
	}
	hooks := observability.LogHooks(logger)
	if reg != nil {
		metrics := observability.NewMetrics(reg)
		hooks = observability.ChainSyntaxHooks(metrics.SyntaxHooks(), hooks)
		opts = append(opts, gatlab.WithEvaluationHooks(metrics.FunctorHooks()))
	}
	opts = append(opts, gatlab.WithHooks(hooks))

	eng, err := gatlab.New(theoryRef, opts...)
	if err != nil {
		return nil, nil, err
	}
	return eng, logger, nil
}

// readSexp reads a term from args (joined) or, when args is empty, from in.
// JSON is recognized by a leading '[' or '"'; anything else is text form.
func readSexp(args []string, in io.Reader) (any, error) {
	src := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		src = string(data)
	}
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("no term given")
	}
	if src[0] == '[' || src[0] == '"' {
		return sexpr.FromJSON([]byte(src))
	}
	return sexpr.Parse(src)
}

// isTTY reports whether w is an interactive terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
