package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/boardtrack/internal/api"
	"github.com/erazemk/boardtrack/internal/db"
	"github.com/erazemk/boardtrack/internal/mirror"
	"github.com/erazemk/boardtrack/internal/model"
	"github.com/erazemk/boardtrack/internal/store"
	"github.com/erazemk/boardtrack/internal/syncer"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

func main() {
	fs := flag.NewFlagSet("boardtrack", flag.ContinueOnError)

	var dbPath string
	fs.StringVar(&dbPath, "db", "boardtrack.sqlite3", "")
	fs.StringVar(&dbPath, "d", "boardtrack.sqlite3", "")

	var addr string
	fs.StringVar(&addr, "addr", ":8080", "")
	fs.StringVar(&addr, "a", ":8080", "")

	var logPath string
	fs.StringVar(&logPath, "log", "", "")
	fs.StringVar(&logPath, "l", "", "")

	var mirrorKind string
	fs.StringVar(&mirrorKind, "mirror", "memory", "")
	fs.StringVar(&mirrorKind, "m", "memory", "")

	var mirrorFile string
	fs.StringVar(&mirrorFile, "mirror-file", "boardtrack-mirror.json", "")

	var scriptURL string
	fs.StringVar(&scriptURL, "script-url", "", "")

	var s3Bucket, s3Region, s3Endpoint string
	fs.StringVar(&s3Bucket, "s3-bucket", "", "")
	fs.StringVar(&s3Region, "s3-region", "", "")
	fs.StringVar(&s3Endpoint, "s3-endpoint", "", "")

	var autoPush bool
	fs.BoolVar(&autoPush, "auto-push", true, "")

	var pullOnStart bool
	fs.BoolVar(&pullOnStart, "pull", true, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: boardtrack [flags]

Flags:
  -d, -db <path>          SQLite cache path (default: boardtrack.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -m, -mirror <kind>      mirror backend: memory, file, script or s3 (default: memory)
  -mirror-file <path>     snapshot file for the file mirror (default: boardtrack-mirror.json)
  -script-url <url>       Apps Script web app URL for the script mirror
  -s3-bucket <name>       bucket for the s3 mirror
  -s3-region <region>     region for the s3 mirror
  -s3-endpoint <url>      custom endpoint for the s3 mirror (e.g. MinIO)
  -auto-push              mirror every mutation in the background (default: true)
  -pull                   pull the remote snapshot on startup (default: true)
  -h, -help               show this help and exit
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	closeLog, err := setupLogger(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	database, err := db.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		slog.Error("failed to ensure database schema", "error", err)
		os.Exit(1)
	}

	slog.Info("cache database ready", "path", dbPath)

	ctx := context.Background()

	st, err := store.Open(ctx, database)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	secret, err := st.TokenSecret(ctx)
	if err != nil {
		slog.Error("failed to load token secret", "error", err)
		os.Exit(1)
	}

	gateway, err := buildGateway(ctx, mirrorKind, mirrorFile, scriptURL, s3Bucket, s3Region, s3Endpoint)
	if err != nil {
		slog.Error("failed to set up mirror gateway", "error", err)
		os.Exit(1)
	}
	slog.Info("mirror gateway ready", "kind", mirrorKind)

	controller := syncer.New(st, gateway, syncer.Config{AutoPush: autoPush})

	// Pull once on startup so a fresh cache picks up the mirrored state.
	// Failure is not fatal: the local cache is usable on its own.
	if pullOnStart {
		if err := controller.PullAll(ctx); err != nil {
			slog.Warn("startup pull failed, continuing with local state", "error", err)
		}
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(st, controller, secret),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	// Let in-flight background pushes finish before the process exits.
	controller.Wait()
	slog.Info("server stopped, closing database")
}

// buildGateway constructs the mirror backend selected on the command line.
func buildGateway(ctx context.Context, kind, filePath, scriptURL, bucket, region, endpoint string) (mirror.Gateway, error) {
	switch kind {
	case "memory":
		return mirror.NewMemory(model.Snapshot{}), nil
	case "file":
		return mirror.NewFile(filePath)
	case "script":
		if scriptURL == "" {
			return nil, fmt.Errorf("the script mirror needs -script-url")
		}
		return mirror.NewScript(scriptURL, mirror.DefaultScriptTimeout)
	case "s3":
		if bucket == "" {
			return nil, fmt.Errorf("the s3 mirror needs -s3-bucket")
		}
		return mirror.NewS3(ctx, mirror.S3Config{
			Region:   region,
			Bucket:   bucket,
			Endpoint: endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown mirror backend %q", kind)
	}
}
