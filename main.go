package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"library-desk/internal/catalog"
	"library-desk/internal/circulation"
	"library-desk/internal/console"
	"library-desk/internal/directory"
	"library-desk/internal/platform/config"
	"library-desk/internal/platform/db"
	"library-desk/internal/platform/logging"
	"library-desk/internal/schema"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to config.yaml")
	mode := flag.String("mode", "", "console | serve (overrides config)")
	check := flag.Bool("check", false, "report books whose availability flag disagrees with open borrowings")
	flag.Parse()

	// .env があれば環境変数として読み込む(無くてもよい)
	if err := config.LoadEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// 設定読み込み
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *mode != "" {
		cfg.Mode = *mode
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	// プロンプトは stdout、ログは stderr
	log := logging.New(os.Stderr, cfg.Log)
	slog.SetDefault(log)

	if err := run(context.Background(), cfg, *check, log); err != nil {
		log.Error("exit", "error", err)
		os.Exit(1)
	}
}

type services struct {
	catalog     *catalog.Service
	circulation *circulation.Service
	directory   *directory.Service
}

func newServices(conn *db.DB, log *slog.Logger) services {
	books := catalog.NewService(conn, log)
	circ := circulation.NewService(conn, circulation.WithLogger(log))
	return services{
		catalog:     books,
		circulation: circ,
		directory:   directory.NewService(conn, books, circ, log),
	}
}

func run(ctx context.Context, cfg *config.Config, check bool, log *slog.Logger) error {
	conn, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Info("connected to DB", "driver", cfg.DB.Driver, "mode", cfg.Mode)

	// スキーマ作成に失敗したら続行しない
	if err := schema.Ensure(ctx, conn); err != nil {
		return err
	}

	svc := newServices(conn, log)

	if check {
		ms, err := svc.circulation.CheckConsistency(ctx)
		if err != nil {
			return err
		}
		log.Info("consistency check done", "mismatches", len(ms))
	}

	switch cfg.Mode {
	case config.ModeServe:
		return serve(ctx, cfg, svc, log)
	default:
		return runConsole(ctx, cfg, svc, log)
	}
}

func runConsole(ctx context.Context, cfg *config.Config, svc services, log *slog.Logger) error {
	enc, err := console.Lookup(cfg.Console.Encoding)
	if err != nil {
		return err
	}
	in, out := console.Wrap(enc, os.Stdin, os.Stdout)
	defer out.Close()

	// Ctrl+C はシグナルのデフォルト動作で終了する(各操作は1トランザクションで完結)
	return console.New(in, out, svc.catalog, svc.directory, log).Run(ctx)
}

func serve(ctx context.Context, cfg *config.Config, svc services, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           newRouter(cfg, svc, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
