package zipcmd

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sunr3d/photo-archive/internal/interfaces/infra"
)

// Время, которое дается zip на завершение после того, как он закрыл stdout.
const exitGrace = 2 * time.Second

var _ infra.Archiver = (*zipArchiver)(nil)

type zipArchiver struct {
	logger *zap.Logger
	binary string
	stderr io.Writer
}

// New возвращает Archiver, запускающий `zip -X -r - <name>` в каталоге dir.
// -X отключает запись uid/gid и времени доступа, поэтому вывод для
// неизмененного каталога не зависит от чтений файлов.
// Диагностика zip пишется в stderr; nil отбрасывает ее.
func New(log *zap.Logger, binary string, stderr io.Writer) infra.Archiver {
	return &zipArchiver{
		logger: log,
		binary: binary,
		stderr: stderr,
	}
}

func (a *zipArchiver) Start(ctx context.Context, dir, name string) (infra.ArchiveProcess, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	path, err := exec.LookPath(a.binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBinaryNotFound, err)
	}

	cmd := exec.CommandContext(ctx, path, "-X", "-r", "-", name)
	cmd.Dir = dir
	cmd.Stderr = a.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPipe, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStart, err)
	}

	a.logger.Debug("архиватор запущен",
		zap.String("binary", path),
		zap.String("dir", dir),
		zap.String("name", name),
		zap.Int("pid", cmd.Process.Pid),
	)

	return &process{cmd: cmd, stdout: stdout}, nil
}

type process struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser

	mu  sync.Mutex
	eof bool

	once sync.Once
	err  error
}

func (p *process) Pid() int {
	return p.cmd.Process.Pid
}

func (p *process) Read(b []byte) (int, error) {
	n, err := p.stdout.Read(b)
	if err == io.EOF {
		p.mu.Lock()
		p.eof = true
		p.mu.Unlock()
	}
	return n, err
}

func (p *process) Close() error {
	p.once.Do(func() {
		p.mu.Lock()
		eof := p.eof
		p.mu.Unlock()

		if eof {
			// zip закрыл stdout и, скорее всего, уже завершается.
			t := time.AfterFunc(exitGrace, func() { _ = p.cmd.Process.Kill() })
			defer t.Stop()
		} else {
			_ = p.cmd.Process.Kill()
		}
		p.err = p.cmd.Wait()
	})
	return p.err
}
