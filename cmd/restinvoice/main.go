package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"restinvoice/internal/api"
	"restinvoice/internal/config"
	"restinvoice/internal/core"
	"restinvoice/internal/data"
	"restinvoice/internal/kv"
	"restinvoice/internal/logger"
	"restinvoice/internal/service"
)

func main() {
	// Check for CLI subcommands
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "token":
			handleToken(os.Args[2:])
			return
		case "install":
			installService()
			return
		case "uninstall":
			uninstallService()
			return
		case "start":
			startService()
			return
		case "stop":
			stopService()
			return
		case "help", "--help", "-h":
			printHelp()
			return
		default:
			fmt.Printf("Unknown command: %s\n", os.Args[1])
			printHelp()
			os.Exit(1)
		}
	}

	if isRunningAsService() {
		runAsService()
		return
	}

	// No subcommand, start the server
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runServer(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("RestInvoice - Invoice Template API Server")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  restinvoice                              Start the server")
	fmt.Println("  restinvoice token -u <user> [-ttl 24h]   Issue a bearer token for a user")
	fmt.Println("  restinvoice install|uninstall            Register or remove the Windows service")
	fmt.Println("  restinvoice start|stop                   Start or stop the Windows service")
	fmt.Println("  restinvoice help                         Show this help")
}

func handleToken(args []string) {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	userID := fs.String("u", "", "User id to issue the token for")
	ttl := fs.Duration("ttl", 24*time.Hour, "Token lifetime (0 = no expiry)")
	fs.Parse(args)

	if *userID == "" {
		fmt.Println("Usage: restinvoice token -u <user> [-ttl 24h]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	authSvc := service.NewAuthService(kv.NewMemoryStore(), cfg.JWTSecret, cfg.AppEnv)
	token, err := authSvc.IssueToken(*userID, *ttl)
	if err != nil {
		fmt.Printf("Failed to issue token: %v\n", err)
		os.Exit(1)
	}

	// Plain output when piped so the token can be captured.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(token)
		return
	}
	color.New(color.FgGreen, color.Bold).Printf("Bearer token for %s", *userID)
	if *ttl > 0 {
		fmt.Printf(" (expires in %s)", *ttl)
	}
	fmt.Println(":")
	fmt.Println(token)
	color.New(color.FgHiBlack).Println("Use it as: Authorization: Bearer <token>")
}

func newSecretStore(cfg *config.Config) (core.SecretStore, func(), error) {
	if cfg.RedisAddr == "" {
		logger.Info.Println("REDIS_ADDR not set; API key secrets are kept in memory and lost on restart")
		return kv.NewMemoryStore(), func() {}, nil
	}
	store, err := kv.NewRedisStore(kv.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Prefix:   cfg.KVPrefix,
	})
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}

// runServer serves the API until ctx is cancelled.
func runServer(ctx context.Context) error {
	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Initialize Logger
	if err := logger.Init(cfg.LogDir, cfg.Debug); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	logger.Info.Println("Starting RestInvoice...")

	// 3. Initialize stores
	store, err := data.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("failed to init database: %w", err)
	}
	defer store.Close()

	secrets, closeSecrets, err := newSecretStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to init secret store: %w", err)
	}
	defer closeSecrets()

	// 4. Initialize Services
	authSvc := service.NewAuthService(secrets, cfg.JWTSecret, cfg.AppEnv)
	templateSvc := service.NewTemplateService(data.NewTemplateRepo(store))
	apiKeySvc := service.NewApiKeyService(data.NewApiKeyRepo(store), authSvc)

	// 5. Initialize Handlers
	limiter := api.NewRateLimiter(float64(cfg.RateLimitPerMinute), cfg.RateLimitBurst)
	defer limiter.Stop()
	apiHandler := api.NewHandler(templateSvc, apiKeySvc, authSvc, limiter)

	// 6. Start Server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           apiHandler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info.Printf("Server listening on port %d (driver %s)", cfg.Port, store.Dialect().Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server startup failed: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error.Printf("Server shutdown error: %v", err)
	}
	logger.Info.Println("Server stopped")
	return nil
}
