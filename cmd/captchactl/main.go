// captchactl は tile_captcha サーバーを操作する管理/プレイ用の CLI です。
//
//	captchactl [-server URL] [-token JWT] <command> [flags]
//
// command: list, get, set, upload, delete, play, token
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"tile_captcha/internal/client"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errUsage = errors.New("usage error")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// env は各コマンドが使う入出力とクライアントです。
type env struct {
	api    *client.Client
	stdin  io.Reader
	stdout io.Writer
	logger *slog.Logger
	now    func() time.Time
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("captchactl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	server := fs.String("server", envOr("CAPTCHA_SERVER", "http://localhost:8080"), "API server base URL")
	token := fs.String("token", os.Getenv("CAPTCHA_TOKEN"), "admin bearer token (JWT)")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: captchactl [-server URL] [-token JWT] <list|get|set|upload|delete|play|token> [flags]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(stderr, &tint.Options{Level: level, TimeFormat: time.Kitchen}))

	opts := []client.Option{}
	if *token != "" {
		opts = append(opts, client.WithToken(*token))
	}
	e := &env{
		api:    client.New(*server, opts...),
		stdin:  stdin,
		stdout: stdout,
		logger: logger,
		now:    time.Now,
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	var err error
	switch cmd {
	case "list":
		err = e.list(ctx, rest)
	case "get":
		err = e.get(ctx, rest)
	case "set":
		err = e.set(ctx, rest)
	case "upload":
		err = e.upload(ctx, rest)
	case "delete":
		err = e.delete(ctx, rest)
	case "play":
		err = e.play(ctx, rest)
	case "token":
		err = e.token(ctx, rest)
	default:
		logger.Error("unknown command", "command", cmd)
		fs.Usage()
		return exitUsage
	}
	if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
		return exitUsage
	}
	if err != nil {
		logger.Error(cmd+" failed", "error", client.Message(err))
		return exitError
	}
	return exitOK
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
