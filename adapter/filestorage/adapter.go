package filestorage

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Adapter stores uploaded documents on the local filesystem under a single
// directory. File names are content hashes, so writes are idempotent.
type Adapter struct {
	dir    string
	logger *zap.Logger
}

type Option func(*Adapter)

func WithDir(dir string) Option {
	return func(a *Adapter) {
		a.dir = dir
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

func New(opts ...Option) (*Adapter, error) {
	a := &Adapter{
		dir:    os.TempDir(),
		logger: zap.NewNop(),
	}

	for _, o := range opts {
		o(a)
	}

	if _, err := os.Stat(a.dir); err != nil {
		return nil, err
	}

	a.logger.Sugar().With(
		"directory", a.dir,
	).Info("init filestorage adapter")

	return a, nil
}

func (a *Adapter) Write(filename string, data io.Reader) error {
	f, err := os.Create(a.Path(filename))
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return err
	}

	return f.Close()
}

func (a *Adapter) Exists(filename string) (bool, error) {
	_, err := os.Stat(a.Path(filename))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (a *Adapter) Read(filename string) (io.ReadSeekCloser, error) {
	return os.Open(a.Path(filename))
}

func (a *Adapter) Delete(filename string) error {
	return os.Remove(a.Path(filename))
}

func (a *Adapter) Path(filename string) string {
	return filepath.Join(a.dir, filename)
}
