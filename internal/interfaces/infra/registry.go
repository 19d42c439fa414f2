package infra

import (
	"context"

	"github.com/sunr3d/photo-archive/models"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=StreamRegistry --output=../../../mocks
type StreamRegistry interface {
	Register(ctx context.Context, stream *models.ActiveStream) error
	Unregister(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.ActiveStream, error)
	Count(ctx context.Context) (int, error)
}
