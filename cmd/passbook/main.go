package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/passbook/internal/api"
	"github.com/erazemk/passbook/internal/config"
	"github.com/erazemk/passbook/internal/db"
	"github.com/erazemk/passbook/internal/export"
	"github.com/erazemk/passbook/internal/imaging"
	"github.com/erazemk/passbook/internal/store"
)

const usage = `Usage: passbook <command> [flags]

Commands:
  serve    run the admin API and the wallet web service
  export   write every pass to an unsigned bundle directory

Run "passbook <command> -h" for the flags of a command.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var cmd func(context.Context, config.Config) error
	switch args[0] {
	case "serve":
		cmd = serve
	case "export":
		cmd = exportPasses
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n\n%s", args[0], usage)
		return 2
	}

	cfg, err := config.Load(args[0], args[1:], stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	// Set up structured logging: INFO/WARN → stdout, ERROR → stderr.
	// Optionally also write to a log file.
	closeLog, err := setupLogger(cfg.LogPath, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd(ctx, cfg); err != nil {
		slog.Error(args[0]+" failed", "error", err)
		return 1
	}
	return 0
}

// openDatabase opens the database, creating it with an admin account if it
// does not exist yet.
func openDatabase(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
		database, password, err := initDatabase(ctx, cfg.DBPath, cfg.AdminUser)
		if err != nil {
			return nil, fmt.Errorf("initializing database: %w", err)
		}
		database.Close()

		printInitResult(cfg.DBPath, cfg.AdminUser, password)
		fmt.Println()
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	// Apply pending migrations (idempotent).
	if err := db.Migrate(database); err != nil {
		database.Close()
		return nil, err
	}

	slog.Info("database ready", "path", cfg.DBPath)
	return database, nil
}

func serve(ctx context.Context, cfg config.Config) error {
	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	// Secrets are generated on first run and kept in the database.
	jwtSecret, err := store.GetSecret(ctx, database, store.SettingJWTSecret)
	if err != nil {
		return err
	}
	passTokenSecret, err := store.GetSecret(ctx, database, store.SettingPassTokenSecret)
	if err != nil {
		return err
	}

	router := api.NewRouter(api.Config{
		DB:              database,
		JWTSecret:       jwtSecret,
		PassTokenSecret: passTokenSecret,
		Assets:          imaging.Assets{Dir: cfg.ImageDir},
		Site:            cfg.Site(),
		Options:         cfg.Serialization,
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.LoggingMiddleware(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started",
		"addr", cfg.Addr,
		"web_service_url", cfg.Site().WebServiceURL(),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}

func exportPasses(ctx context.Context, cfg config.Config) error {
	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	exporter := &export.Exporter{
		DB:      database,
		Assets:  imaging.Assets{Dir: cfg.ImageDir},
		Site:    cfg.Site(),
		Options: cfg.Serialization,
		OutDir:  cfg.OutDir,
		Workers: cfg.Workers,
	}

	start := time.Now()
	results, err := exporter.Run(ctx)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	slog.Info("export finished",
		"passes", len(results),
		"failed", failed,
		"out", cfg.OutDir,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	if failed > 0 {
		return fmt.Errorf("%d of %d passes failed to export", failed, len(results))
	}
	return nil
}

// initDatabase creates a new database, ensures the schema, and creates the admin user.
func initDatabase(ctx context.Context, path, adminUsername string) (*sql.DB, string, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}

	fail := func(err error) (*sql.DB, string, error) {
		database.Close()
		os.Remove(path)
		return nil, "", err
	}

	if err := db.Migrate(database); err != nil {
		return fail(fmt.Errorf("ensuring schema: %w", err))
	}

	password, err := generatePassword(16)
	if err != nil {
		return fail(fmt.Errorf("generating password: %w", err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fail(fmt.Errorf("hashing password: %w", err))
	}

	if _, err := store.CreateUser(ctx, database, adminUsername, string(hash)); err != nil {
		return fail(fmt.Errorf("creating admin user: %w", err))
	}

	return database, password, nil
}

// printInitResult prints the database initialization result to stdout.
func printInitResult(dbPath, username, password string) {
	fmt.Printf("Database created: %s\n", dbPath)
	fmt.Println("Schema initialized.")
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("The admin can change it after logging in.")
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
