package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"gastos/internal/amqp"
	"gastos/internal/bot"
	"gastos/internal/cli"
	"gastos/internal/log"
	"gastos/internal/server"
	"gastos/internal/services"
	"gastos/internal/session"
	"gastos/internal/telegram"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)

	logger.Info("Starting gastos", log.FieldOperation, log.OpStartup)

	cfg := cli.LoadAndValidateConfig(logger)
	if len(cfg.AllowedUsers) == 0 {
		logger.Warn("ALLOWED_USER_IDS is empty - every Telegram user is allowed")
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// AMQP is optional: without it entries stay local and the sheet
	// sync simply never happens.
	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	svc := services.NewLedgerService(repo, publisher)

	sessions := session.NewStore(cfg.NameCaptureTTL)
	defer sessions.Close()

	tg := telegram.NewClient(cfg.BotToken)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	me, err := tg.GetMe(ctx)
	if err != nil {
		logger.Error("Failed to reach Telegram", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Connected to Telegram", "bot", me.Username)

	handler := bot.NewHandler(cfg, svc, sessions, tg, logger)
	poller := bot.NewPoller(tg, handler, logger, cfg.PollTimeout)
	ops := server.New(cfg.Port, repo, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return poller.Run(ctx)
	})
	g.Go(func() error {
		return ops.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return ops.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Exited with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Stopped gracefully", log.FieldOperation, log.OpShutdown)
}
