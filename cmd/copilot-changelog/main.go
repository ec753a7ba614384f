package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/ceponatia/copilot-changelog/pkg/config"
	"github.com/ceponatia/copilot-changelog/pkg/content"
	"github.com/ceponatia/copilot-changelog/pkg/domain"
	"github.com/ceponatia/copilot-changelog/pkg/feed"
	"github.com/ceponatia/copilot-changelog/pkg/notify"
	"github.com/ceponatia/copilot-changelog/pkg/proc"
	"github.com/ceponatia/copilot-changelog/pkg/state"
	"github.com/ceponatia/copilot-changelog/pkg/summary"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" description:"config file (optional)"`

	WebhookURL string `long:"webhook" env:"DISCORD_WEBHOOK_URL" description:"discord webhook url"`
	ThreadID   string `long:"thread-id" env:"DISCORD_THREAD_ID" description:"existing forum thread id"`
	ThreadName string `long:"thread-name" env:"DISCORD_THREAD_NAME" description:"forum thread name to create"`
	Mode       string `long:"mode" env:"DISCORD_FORUM_MODE" default:"auto" choice:"per-item" choice:"single" choice:"auto" choice:"off" description:"forum posting mode"` //nolint:staticcheck // go-flags uses duplicate choice tags

	GithubToken    string `long:"github-token" env:"GITHUB_TOKEN" description:"github models token"`
	GithubModel    string `long:"github-model" env:"GITHUB_MODELS_MODEL" description:"github models model override"`
	GithubEndpoint string `long:"github-endpoint" env:"GITHUB_MODELS_API_URL" description:"github models endpoint override"`
	OpenAIKey      string `long:"openai-key" env:"OPENAI_API_KEY" description:"openai api key"`

	TimeoutSec int  `long:"timeout" env:"SUMMARY_HTTP_TIMEOUT" default:"20" description:"network timeout, seconds"`
	Force      bool `long:"force" env:"FORCE_POST" description:"repost entries even if already seen"`
	DryRun     bool `long:"dry-run" env:"DRY_RUN" description:"print payloads instead of posting"`

	Dbg     bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
}

var revision = "unknown"

// sentinel for the missing-webhook configuration error, exit code 1
var errNoWebhook = errors.New("DISCORD_WEBHOOK_URL is required")

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Dbg, opts.GithubToken, opts.OpenAIKey, opts.WebhookURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	if err := run(ctx, opts); err != nil {
		log.Printf("[ERROR] %v", err)
		if errors.Is(err, errNoWebhook) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}

func run(ctx context.Context, opts Opts) error {
	if opts.WebhookURL == "" {
		return errNoWebhook
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	mode, err := domain.ParsePostMode(opts.Mode)
	if err != nil {
		return err
	}

	timeout := time.Duration(opts.TimeoutSec) * time.Second

	store, err := state.New(cfg.State.Path)
	if err != nil {
		return fmt.Errorf("open seen state: %w", err)
	}
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}

	var enricher summary.Enricher
	if cfg.Extraction.Enabled {
		enricher = content.NewExtractor(cfg.Extraction.Timeout)
	}

	summarizer := summary.New(summary.Config{
		GithubToken:    opts.GithubToken,
		GithubModel:    firstNonEmpty(opts.GithubModel, cfg.LLM.GithubModel),
		GithubEndpoint: firstNonEmpty(opts.GithubEndpoint, cfg.LLM.GithubEndpoint),
		OpenAIKey:      opts.OpenAIKey,
		OpenAIModel:    cfg.LLM.OpenAIModel,
		Temperature:    float32(cfg.LLM.Temperature),
		Timeout:        timeout,
		MaxLen:         cfg.LLM.MaxSummaryLen,
		MaxTitleLen:    cfg.LLM.MaxTitleLen,
		FallbackTitle:  cfg.Post.Source,
		MinContentLen:  cfg.Extraction.MinSummaryLen,
	}, enricher)

	notifier := notify.New(notify.Config{
		WebhookURL: opts.WebhookURL,
		ThreadID:   opts.ThreadID,
		ThreadName: opts.ThreadName,
		Source:     cfg.Post.Source,
		Timeout:    timeout,
		DryRun:     opts.DryRun,
	})

	processor := proc.New(proc.Config{
		FeedURL:        cfg.Feed.URL,
		Keyword:        cfg.Feed.Keyword,
		MaxItems:       cfg.Post.MaxItems,
		Mode:           mode,
		ExplicitThread: opts.ThreadID != "" || opts.ThreadName != "",
		Force:          opts.Force,
		FallbackTitle:  cfg.Post.FallbackTitle,
		FallbackURL:    cfg.Post.FallbackURL,
	}, feed.NewHTTPFetcher(cfg.Feed.Timeout), summarizer, notifier, store)

	return processor.Run(ctx)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Out(os.Stderr), lgr.Err(os.Stderr)}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	var secrets []string
	for _, s := range secs {
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
