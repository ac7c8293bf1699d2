package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"tg-overview/internal/adapter/audio"
	"tg-overview/internal/adapter/filesystem"
	"tg-overview/internal/adapter/loader"
	"tg-overview/internal/adapter/telegram"
	"tg-overview/internal/adapter/ui"
	"tg-overview/internal/config"
	"tg-overview/internal/domain"
	"tg-overview/internal/layout"
	"tg-overview/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// These variables will be set by the linker during build
// -ldflags "-X main.AppID=12345 -X main.AppHash=abcdef..."
var (
	AppID   string
	AppHash string
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load(".env")

	cli, err := config.ParseCLI(AppID, AppHash)
	if err != nil {
		return err
	}
	section, ok := usecase.ParseSection(cli.Command)
	if !ok {
		return fmt.Errorf("unknown command: %s", cli.Command)
	}

	cfg, err := config.LoadConfig(cli.ConfigPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cli.NonInteractive)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	console := ui.NewConsoleUI(cli.NonInteractive)

	logger.Info("session file", zap.String("path", cli.SessionPath))

	client, err := telegram.NewClient(cli.AppID, cli.AppHash, cli.SessionPath, logger)
	if err != nil {
		return fmt.Errorf("failed to create telegram client: %w", err)
	}

	logger.Info("connecting to Telegram")
	if err := client.Start(ctx, console); err != nil {
		return fmt.Errorf("failed to start telegram client: %w", err)
	}
	defer client.Close()

	cacheDir, err := config.GetCacheDir(cfg.Loader.CacheDir)
	if err != nil {
		return err
	}
	cache, err := filesystem.NewCache(cacheDir)
	if err != nil {
		return fmt.Errorf("failed to create media cache: %w", err)
	}

	files := loader.New(cache, logger, cfg.Loader.Workers, cfg.Loader.AutoLoadLimit)
	files.Bind(client.API())
	files.SetReporter(console)
	client.SetTransfers(files)

	layout.DeviceScale = cfg.View.DeviceScale

	dialog, err := pickDialog(ctx, cli, client, console)
	if err != nil {
		return err
	}
	logger.Info("selected chat",
		zap.String("name", dialog.Peer.Name),
		zap.Int64("peer", dialog.Peer.ID))

	history := domain.NewHistory(dialog.Peer, domain.HistoryConfig{
		RevokeTimeLimit:         cfg.History.RevokeTimeLimit,
		RevokePrivateTimeLimit:  cfg.History.RevokePrivateTimeLimit,
		ChannelsReadMediaPeriod: cfg.History.ChannelsReadMediaPeriod,
	}, console)

	if err := client.LoadHistory(ctx, history, cli.Limit); err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	tiles := usecase.NewOverview(history).Build(section)
	if len(tiles) == 0 {
		fmt.Println("Nothing to show in this section.")
		return nil
	}

	player := audio.NewPlayer()
	now := time.Now()
	console.RenderItems(tiles, cfg.View.Width, &layout.PaintContext{
		Ctx:   ctx,
		MS:    now.UnixMilli(),
		Now:   now.Unix(),
		Audio: player,
	})

	if err := files.Wait(); err != nil {
		return fmt.Errorf("media downloads failed: %w", err)
	}
	console.Wait()
	return nil
}

func pickDialog(ctx context.Context, cli *config.CLIConfig, client *telegram.Client, console *ui.ConsoleUI) (domain.DialogInfo, error) {
	selector := usecase.NewSelector(client)
	if cli.PeerID != 0 {
		return selector.FindDialog(ctx, cli.PeerID)
	}
	dialogs, err := selector.ListDialogs(ctx)
	if err != nil {
		return domain.DialogInfo{}, fmt.Errorf("failed to list dialogs: %w", err)
	}
	return console.SelectDialog(dialogs)
}

func newLogger(nonInteractive bool) (*zap.Logger, error) {
	if nonInteractive {
		return zap.NewProduction()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	return cfg.Build()
}
