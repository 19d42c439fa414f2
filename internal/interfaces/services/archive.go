package services

import (
	"context"
	"io"

	"github.com/sunr3d/photo-archive/models"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=ArchiveService --output=../../../mocks
type ArchiveService interface {
	Lookup(ctx context.Context, name string) (*models.ArchiveRequest, error)
	Stream(ctx context.Context, req *models.ArchiveRequest, w io.Writer) (*models.StreamStats, error)
	ActiveStreams(ctx context.Context) ([]models.ActiveStream, error)
}
