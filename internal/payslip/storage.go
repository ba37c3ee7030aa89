package payslip

import (
	"io"
	"os"
	"path/filepath"
)

// FileStore keeps payslip files in a flat directory. Stored names are
// generated server side, so no path sanitization beyond Base is needed.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) path(storedName string) string {
	return filepath.Join(fs.dir, filepath.Base(storedName))
}

func (fs *FileStore) Save(storedName string, r io.Reader) (int64, error) {
	f, err := os.OpenFile(fs.path(storedName), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o640)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		os.Remove(f.Name())
		return 0, err
	}
	return n, nil
}

func (fs *FileStore) Open(storedName string) (io.ReadCloser, error) {
	return os.Open(fs.path(storedName))
}

func (fs *FileStore) Remove(storedName string) error {
	return os.Remove(fs.path(storedName))
}
