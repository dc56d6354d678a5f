package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/ryokan-quote/internal/config"
	"github.com/noah-isme/ryokan-quote/internal/obs"
	"github.com/noah-isme/ryokan-quote/internal/quote"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "quotectl:", err)
		}
		os.Exit(1)
	}
}

type options struct {
	in       string
	remote   string
	defaults bool
	asJSON   bool
	timeout  time.Duration
	attempts int
	verbose  bool
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var opts options
	fs := flag.NewFlagSet("quotectl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.in, "in", "-", "quote request JSON file; - reads stdin")
	fs.StringVar(&opts.remote, "remote", "", "base URL of a quote API; empty computes locally")
	fs.BoolVar(&opts.defaults, "defaults", false, "quote the default stay instead of reading a request")
	fs.BoolVar(&opts.asJSON, "json", false, "print the full quote as JSON instead of the summary")
	fs.DurationVar(&opts.timeout, "timeout", 10*time.Second, "per attempt timeout for -remote")
	fs.IntVar(&opts.attempts, "attempts", 3, "attempts for -remote")
	fs.BoolVar(&opts.verbose, "v", false, "log unparsed inputs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	logger := obs.NewLogger(obs.LogOptions{Format: "console", Level: level, Out: stderr})
	ctx = logger.WithContext(ctx)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	req, err := readRequest(opts, stdin)
	if err != nil {
		return err
	}

	var resp quote.Response
	if opts.remote != "" {
		client, err := quote.NewClient(quote.ClientConfig{BaseURL: opts.remote, Timeout: opts.timeout, MaxAttempts: opts.attempts})
		if err != nil {
			return err
		}
		if resp, err = client.Create(ctx, req); err != nil {
			return err
		}
	} else {
		if err := quote.NewValidator().Struct(req); err != nil {
			return fmt.Errorf("invalid request: %w", err)
		}
		if n := req.ExtraItems(); cfg.MaxExtraItems > 0 && n > cfg.MaxExtraItems {
			return fmt.Errorf("invalid request: %d extra items, at most %d allowed", n, cfg.MaxExtraItems)
		}
		svc := quote.NewService(cfg.Pricing)
		resp = quote.Renderer{Symbol: cfg.CurrencySymbol}.Response(svc.Quote(ctx, req.ToPricing()), svc.Policy)
	}

	for _, d := range resp.Diagnostics {
		zerolog.Ctx(ctx).Warn().Str("field", d.Field).Str("input", d.Input).Str("reason", d.Reason).Msg("read as zero")
	}
	if opts.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	_, err = io.WriteString(stdout, strings.Join(resp.Summary, "\n")+"\n")
	return err
}

func readRequest(opts options, stdin io.Reader) (quote.Request, error) {
	if opts.defaults {
		return quote.DefaultRequest(), nil
	}
	src := stdin
	if opts.in != "-" && opts.in != "" {
		f, err := os.Open(opts.in)
		if err != nil {
			return quote.Request{}, err
		}
		defer f.Close()
		src = f
	}
	var req quote.Request
	dec := json.NewDecoder(src)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return quote.Request{}, fmt.Errorf("decode request: %w", err)
	}
	return req, nil
}
