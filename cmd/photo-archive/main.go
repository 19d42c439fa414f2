package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sunr3d/photo-archive/internal/config"
	"github.com/sunr3d/photo-archive/internal/entrypoint"
	"github.com/sunr3d/photo-archive/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "photo-archive",
	Short:         "Сервер потоковой выдачи архивов с фотографиями",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	config.RegisterFlags(rootCmd.Flags())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// .env необязателен.
	_ = godotenv.Load()

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := entrypoint.Run(cfg, log); err != nil {
		log.Error("сервер завершился с ошибкой", zap.Error(err))
		return err
	}
	return nil
}
