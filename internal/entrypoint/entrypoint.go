package entrypoint

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/sunr3d/photo-archive/internal/api"
	"github.com/sunr3d/photo-archive/internal/config"
	"github.com/sunr3d/photo-archive/internal/infra/inmem"
	"github.com/sunr3d/photo-archive/internal/infra/zipcmd"
	"github.com/sunr3d/photo-archive/internal/middleware"
	"github.com/sunr3d/photo-archive/internal/server"
	"github.com/sunr3d/photo-archive/internal/services/archive_service"
)

func Run(cfg *config.Config, log *zap.Logger) error {
	log.Info("конфигурация загружена",
		zap.String("photos_root", cfg.PhotosRoot),
		zap.Duration("latency", cfg.Latency()),
		zap.Int("chunk_size", cfg.ChunkSize()),
		zap.String("zip", cfg.ZipBinary),
	)

	var zipStderr io.Writer
	if cfg.Logging {
		zipStderr = os.Stderr
	}

	archiver := zipcmd.New(log, cfg.ZipBinary, zipStderr)
	registry := inmem.New(log)
	svc := archive_service.New(log, cfg, archiver, registry)
	controller := api.New(svc, log, cfg)

	router := controller.Router(
		middleware.Recovery(log),
		middleware.ReqLogger(log),
	)

	srv := server.New(cfg.Addr(), router, log)
	srv.OnShutdown(func() {
		if n, err := registry.Count(context.Background()); err == nil {
			log.Info("активных загрузок при остановке", zap.Int("count", n))
		}
		streams, err := svc.ActiveStreams(context.Background())
		if err != nil {
			log.Error("не удалось получить активные загрузки", zap.Error(err))
			return
		}
		for _, s := range streams {
			log.Warn("загрузка будет прервана",
				zap.String("archive_id", s.ID),
				zap.String("name", s.Name),
				zap.Int("pid", s.Pid),
			)
		}
	})

	return srv.Start()
}
