// Package main is the entry point for the luasnap REPL.
//
// It reads one Lua expression per line from stdin, evaluates it against a
// persistent session, and prints each result as structured JSON on stdout.
// Logs go to stderr so stdout stays machine-readable.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/luasnap/internal/config"
	"github.com/dshills/luasnap/internal/render"
	"github.com/dshills/luasnap/internal/session"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath  string
	quiet       bool
	safeLibs    bool
	showVersion bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("luasnap %s (commit %s, built %s)\n", version, commit, date)
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	sessOpts := []session.Option{
		session.WithQueueSize(cfg.QueueSize),
		session.WithLogger(logger),
	}
	if cfg.SafeLibraries || opts.safeLibs {
		sessOpts = append(sessOpts, session.WithSafeLibraries())
	}

	sess, err := session.New(sessOpts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to start session: %v\n", err)
		return 1
	}

	// Ensure the worker is joined on all exit paths
	defer sess.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		cancel()
	}()

	interactive := !opts.quiet && term.IsTerminal(int(os.Stdin.Fd()))
	r := render.New(cfg.Pretty)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print(cfg.Prompt)
		}
		if !scanner.Scan() {
			break
		}

		resp, err := sess.Evaluate(ctx, scanner.Text())
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, session.ErrSessionClosed) {
				return 0
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}

		out, err := r.Render(resp)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: render: %v\n", err)
			return 1
		}
		os.Stdout.Write(out)
		if len(out) == 0 || out[len(out)-1] != '\n' {
			fmt.Println()
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() options {
	var opts options

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.BoolVar(&opts.quiet, "quiet", false, "Suppress the prompt even on a terminal")
	flag.BoolVar(&opts.quiet, "q", false, "Suppress the prompt (shorthand)")
	flag.BoolVar(&opts.safeLibs, "safe", false, "Restrict Lua to base/table/string/math libraries")
	flag.BoolVar(&opts.showVersion, "version", false, "Print version and exit")
	flag.Parse()

	return opts
}
