package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/tendant/catfeed/internal/config"
	"github.com/tendant/catfeed/pkg/auth"
	"github.com/tendant/catfeed/pkg/repository"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load configuration:", err)
		os.Exit(1)
	}

	db, err := repository.NewDB(repository.Config{
		Driver:   cfg.DBDriver,
		URL:      cfg.DatabaseURL,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect to database:", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DBAutoMigrate {
		if err := repository.Migrate(ctx, db); err != nil {
			fmt.Fprintln(os.Stderr, "apply migrations:", err)
			os.Exit(1)
		}
	}

	accounts := auth.NewAccountService(
		repository.NewAdminsRepository(db),
		auth.NewPasswordPolicy(cfg.PasswordPolicy),
		logger,
	)

	cli := &CLI{Accounts: accounts, Stdin: os.Stdin, Stdout: os.Stdout}
	if err := cli.Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
