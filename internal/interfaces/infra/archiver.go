package infra

import (
	"context"
	"io"
)

// ArchiveProcess - запущенный архиватор, stdout которого читается через Read.
// Close убивает процесс, если он еще работает, и дожидается его завершения.
// Повторный вызов безопасен и возвращает ошибку выхода первого вызова.
type ArchiveProcess interface {
	io.Reader
	Pid() int
	Close() error
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=Archiver --output=../../../mocks
type Archiver interface {
	Start(ctx context.Context, dir, name string) (ArchiveProcess, error)
}
