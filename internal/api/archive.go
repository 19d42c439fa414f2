package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sunr3d/photo-archive/internal/config"
	"github.com/sunr3d/photo-archive/internal/interfaces/services"
	"github.com/sunr3d/photo-archive/internal/services/archive_service"
)

type ArchiveAPI struct {
	service services.ArchiveService
	logger  *zap.Logger
	cfg     *config.Config
}

func New(service services.ArchiveService, logger *zap.Logger, cfg *config.Config) *ArchiveAPI {
	return &ArchiveAPI{
		service: service,
		logger:  logger,
		cfg:     cfg,
	}
}

// GET /
func (h *ArchiveAPI) Index(w http.ResponseWriter, r *http.Request) {
	content, err := os.ReadFile(h.cfg.IndexPath)
	if err != nil {
		h.logger.Error("не удалось прочитать index.html", zap.String("path", h.cfg.IndexPath), zap.Error(err))
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(content); err != nil {
		h.logger.Error("ошибка отправки index.html", zap.Error(err))
	}
}

// GET /archive/{name}/
func (h *ArchiveAPI) DownloadArchive(w http.ResponseWriter, r *http.Request) {
	rawName := chi.URLParam(r, "name")
	name, err := url.PathUnescape(rawName)
	if err != nil {
		h.logger.Info("некорректное имя архива в URL", zap.String("name", rawName), zap.Error(err))
		http.Error(w, archive_service.ErrArchiveNotFound.Error(), http.StatusNotFound)
		return
	}

	ctx := r.Context()
	req, err := h.service.Lookup(ctx, name)
	if err != nil {
		if errors.Is(err, archive_service.ErrArchiveNotFound) {
			h.logger.Info("архив не найден", zap.String("name", name), zap.Error(err))
			http.Error(w, archive_service.ErrArchiveNotFound.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("ошибка при поиске архива", zap.String("name", name), zap.Error(err))
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.zip\"", strings.ReplaceAll(name, `"`, `\"`)))
	w.Header().Set("Connection", "close")
	w.WriteHeader(http.StatusOK)

	fw := newFlushWriter(w)
	if err := fw.flush(); err != nil {
		h.logger.Debug("не удалось отправить заголовки", zap.String("archive_id", req.ID), zap.Error(err))
	}

	stats, err := h.service.Stream(ctx, req, fw)
	if err != nil {
		// Прерывание уже залогировано сервисом.
		logf := h.logger.Error
		if errors.Is(err, archive_service.ErrInterrupted) {
			logf = h.logger.Debug
		}
		logf("загрузка архива завершилась с ошибкой",
			zap.String("archive_id", req.ID),
			zap.String("name", req.Name),
			zap.Error(err),
		)
		// Заголовки уже отправлены, остается только оборвать соединение.
		panic(http.ErrAbortHandler)
	}

	h.logger.Info("загрузка архива завершена",
		zap.String("archive_id", req.ID),
		zap.String("name", req.Name),
		zap.Int("chunks", stats.Chunks),
		zap.Int64("bytes", stats.Bytes),
		zap.Duration("duration", stats.Duration),
	)
}

type flushWriter struct {
	w  io.Writer
	rc *http.ResponseController
}

func newFlushWriter(w http.ResponseWriter) *flushWriter {
	return &flushWriter{w: w, rc: http.NewResponseController(w)}
}

func (fw *flushWriter) Write(p []byte) (int, error) {
	n, err := fw.w.Write(p)
	if err != nil {
		return n, err
	}
	return n, fw.flush()
}

func (fw *flushWriter) flush() error {
	if err := fw.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}
