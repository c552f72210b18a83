// Command ritc sends a single request to the RIT REST API and prints the
// response as indented JSON.
//
//	ritc [flags] METHOD PATH [key=value ...]
//
// PATH may omit the /v1/ prefix. Exit status is 0 on success, 2 when the
// server rejects the request, 3 when it is rate limited under -fail-fast,
// and 1 for anything else.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/rickgao/rit-client/internal/api"
	"github.com/rickgao/rit-client/internal/config"
	"github.com/rickgao/rit-client/internal/version"
)

// Exit codes.
const (
	exitOK        = 0
	exitFailure   = 1
	exitRejected  = 2
	exitThrottled = 3
)

// apiKeyEnv is read when neither the config nor -key provides a key.
const apiKeyEnv = "RIT_API_KEY"

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ritc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to config file (optional)")
	baseURL := fs.String("url", "", "RIT API base URL (overrides config)")
	apiKey := fs.String("key", "", "API key (overrides config and $"+apiKeyEnv+")")
	failFast := fs.Bool("fail-fast", false, "return rate-limit errors instead of waiting")
	debug := fs.Bool("debug", false, "enable debug logging")
	showVersion := fs.Bool("version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: ritc [flags] METHOD PATH [key=value ...]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitFailure
	}

	if *showVersion {
		fmt.Fprintln(stdout, "ritc", version.String())
		return exitOK
	}

	if fs.NArg() < 2 {
		fs.Usage()
		return exitFailure
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "ritc: %v\n", err)
		return exitFailure
	}

	level, _ := cfg.Logging.SlogLevel()
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))

	method, err := api.ParseMethod(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "ritc: %v\n", err)
		return exitFailure
	}
	path := normalizePath(fs.Arg(1))

	params, err := parseParams(fs.Args()[2:])
	if err != nil {
		fmt.Fprintf(stderr, "ritc: %v\n", err)
		return exitFailure
	}

	policy, err := api.ParseRetryPolicy(cfg.API.RetryPolicy)
	if err != nil {
		fmt.Fprintf(stderr, "ritc: %v\n", err)
		return exitFailure
	}
	if *failFast {
		policy = api.FailFast
	}

	url := cfg.API.URL()
	if *baseURL != "" {
		url = *baseURL
	}
	key := cfg.API.APIKey
	if key == "" {
		key = os.Getenv(apiKeyEnv)
	}
	if *apiKey != "" {
		key = *apiKey
	}

	client := api.NewClient(url, key,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
	)

	logger.Debug("sending request", "method", method, "url", client.BaseURL()+path, "policy", policy)

	result, err := client.Execute(ctx, method, path, params, policy)
	if err != nil {
		fmt.Fprintf(stderr, "ritc: %v\n", err)
		return exitCode(err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(stderr, "ritc: encode response: %v\n", err)
		return exitFailure
	}
	fmt.Fprintln(stdout, string(out))
	return exitOK
}

// loadConfig reads path if given, otherwise runs on defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()
		return cfg, cfg.Validate()
	}
	return config.LoadAndValidate(path)
}

// normalizePath accepts "case", "/case", "v1/case" and "/v1/case".
func normalizePath(p string) string {
	p = strings.TrimPrefix(p, "/")
	if !strings.HasPrefix(p, "v1/") {
		p = "v1/" + p
	}
	return "/" + p
}

// parseParams turns key=value arguments into request parameters. Values are
// sent verbatim.
func parseParams(args []string) (api.Params, error) {
	params := api.Params{}
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("parameter %q is not key=value", arg)
		}
		params[k] = v
	}
	return params, nil
}

// exitCode maps a request failure to the process exit status.
func exitCode(err error) int {
	switch {
	case errors.Is(err, api.ErrRejected):
		return exitRejected
	case errors.Is(err, api.ErrThrottled):
		return exitThrottled
	default:
		return exitFailure
	}
}
