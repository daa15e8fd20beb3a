package rawio

import (
	"path/filepath"

	"github.com/hupe1980/pointbuf/buffer"
	"github.com/hupe1980/pointbuf/internal/fs"
)

// WriteFile writes b to path. The data goes to a temporary file in the same
// directory that is synced and renamed over path, so readers never observe a
// partially written file.
func WriteFile(path string, b buffer.Buffer, opts ...Option) error {
	return writeFile(fs.Default, path, b, opts...)
}

func writeFile(fsys fs.FileSystem, path string, b buffer.Buffer, opts ...Option) (err error) {
	f, err := fsys.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = fsys.Remove(tmp)
		}
	}()

	w, err := NewWriter(f, b.Layout(), opts...)
	if err != nil {
		return err
	}
	if err = w.WriteBuffer(b); err != nil {
		return err
	}
	if err = w.Close(); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return fsys.Rename(tmp, path)
}
