package archive_service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paulbellamy/ratecounter"
	"go.uber.org/zap"

	"github.com/sunr3d/photo-archive/internal/config"
	"github.com/sunr3d/photo-archive/internal/interfaces/infra"
	"github.com/sunr3d/photo-archive/internal/interfaces/services"
	"github.com/sunr3d/photo-archive/models"
)

var _ services.ArchiveService = (*archiveService)(nil)

type archiveService struct {
	archiver infra.Archiver
	registry infra.StreamRegistry
	logger   *zap.Logger
	cfg      *config.Config
}

func New(log *zap.Logger, cfg *config.Config, archiver infra.Archiver, registry infra.StreamRegistry) services.ArchiveService {
	return &archiveService{
		archiver: archiver,
		registry: registry,
		logger:   log,
		cfg:      cfg,
	}
}

func (s *archiveService) Lookup(ctx context.Context, name string) (*models.ArchiveRequest, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrInterrupted, ctx.Err())
	default:
	}

	// Имя должно быть ровно одним элементом пути внутри корня.
	if !isValidName(name) {
		s.logger.Warn("некорректное имя архива", zap.String("name", name))
		return nil, fmt.Errorf("%w: %q", ErrArchiveNotFound, name)
	}

	path := filepath.Join(s.cfg.PhotosRoot, name)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveNotFound, err)
	}

	return &models.ArchiveRequest{
		ID:        uuid.New().String(),
		Name:      name,
		RootDir:   s.cfg.PhotosRoot,
		Delay:     s.cfg.Latency(),
		StartedAt: time.Now(),
	}, nil
}

func (s *archiveService) Stream(ctx context.Context, req *models.ArchiveRequest, w io.Writer) (stats *models.StreamStats, err error) {
	select {
	case <-ctx.Done():
		return nil, s.interrupted(req, ctx.Err())
	default:
	}

	proc, err := s.archiver.Start(ctx, req.RootDir, req.Name)
	if err != nil {
		s.logger.Error("не удалось запустить архиватор",
			zap.String("archive_id", req.ID),
			zap.String("name", req.Name),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrArchiverStart, err)
	}

	stats = &models.StreamStats{}
	eof := false

	defer func() {
		exitErr := proc.Close()
		if uerr := s.registry.Unregister(context.WithoutCancel(ctx), req.ID); uerr != nil {
			s.logger.Debug("загрузка не найдена в реестре", zap.String("archive_id", req.ID), zap.Error(uerr))
		}
		stats.Duration = time.Since(req.StartedAt)

		switch {
		case exitErr == nil:
		case eof && err == nil && stats.Bytes == 0:
			s.logger.Error("архиватор завершился с ошибкой",
				zap.String("archive_id", req.ID),
				zap.Error(exitErr),
			)
			err = fmt.Errorf("%w: %v", ErrArchiverFailed, exitErr)
		case eof && err == nil:
			s.logger.Warn("архиватор завершился с ошибкой после отправки данных",
				zap.String("archive_id", req.ID),
				zap.Int64("bytes", stats.Bytes),
				zap.Error(exitErr),
			)
		default:
			s.logger.Debug("архиватор остановлен",
				zap.String("archive_id", req.ID),
				zap.Error(exitErr),
			)
		}
	}()

	if rerr := s.registry.Register(ctx, &models.ActiveStream{
		ID:        req.ID,
		Name:      req.Name,
		Pid:       proc.Pid(),
		StartedAt: req.StartedAt,
	}); rerr != nil {
		if ctx.Err() != nil {
			return stats, s.interrupted(req, ctx.Err())
		}
		return stats, fmt.Errorf("%w: %v", ErrRegister, rerr)
	}

	counter := ratecounter.NewRateCounter(time.Second)
	buf := make([]byte, s.cfg.ChunkSize())

	for {
		if ctx.Err() != nil {
			return stats, s.interrupted(req, ctx.Err())
		}

		n, rerr := proc.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				if ctx.Err() != nil {
					return stats, s.interrupted(req, ctx.Err())
				}
				return stats, s.interrupted(req, werr)
			}
			stats.Chunks++
			stats.Bytes += int64(n)
			counter.Incr(int64(n))

			s.logger.Debug("Отправка фрагмента архива",
				zap.String("archive_id", req.ID),
				zap.Int("chunk", stats.Chunks),
				zap.Int("bytes", n),
				zap.Int64("rate_bps", counter.Rate()),
			)
		}

		if errors.Is(rerr, io.EOF) {
			// Архиватор, убитый по отмене контекста, тоже закрывает stdout.
			if ctx.Err() != nil {
				return stats, s.interrupted(req, ctx.Err())
			}
			eof = true
			break
		}
		if rerr != nil {
			if ctx.Err() != nil {
				return stats, s.interrupted(req, ctx.Err())
			}
			return stats, fmt.Errorf("%w: %v", ErrArchiverRead, rerr)
		}

		if perr := pause(ctx, req.Delay); perr != nil {
			return stats, s.interrupted(req, perr)
		}
	}

	s.logger.Info("архив отправлен",
		zap.String("archive_id", req.ID),
		zap.String("name", req.Name),
		zap.Int("chunks", stats.Chunks),
		zap.Int64("bytes", stats.Bytes),
	)

	return stats, nil
}

func (s *archiveService) ActiveStreams(ctx context.Context) ([]models.ActiveStream, error) {
	return s.registry.List(ctx)
}

func (s *archiveService) interrupted(req *models.ArchiveRequest, cause error) error {
	s.logger.Error("Загрузка архива прервана",
		zap.String("archive_id", req.ID),
		zap.String("name", req.Name),
		zap.Error(cause),
	)
	return fmt.Errorf("%w: %w", ErrInterrupted, cause)
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isValidName(name string) bool {
	if name == "" || name == "." || strings.HasPrefix(name, "-") {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return filepath.IsLocal(name)
}
