package filesystem

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
)

// Cache stores downloaded media on disk, keyed by the remote file's
// cache key.
type Cache struct {
	dir string
}

func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Path is the on-disk location of a cached file.
func (c *Cache) Path(key string) string {
	sum := md5.Sum([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:]))
}

// Has reports whether the key is already cached.
func (c *Cache) Has(key string) bool {
	info, err := os.Stat(c.Path(key))
	return err == nil && !info.IsDir()
}

// Size is the byte size of a cached file, or 0.
func (c *Cache) Size(key string) int64 {
	info, err := os.Stat(c.Path(key))
	if err != nil {
		return 0
	}
	return info.Size()
}

// Put streams data into the cache. The file appears atomically: the
// write goes to a temp file renamed into place on success.
func (c *Cache) Put(key string, data io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(c.dir, "partial-*")
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(tmp, data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return n, err
	}
	if err := os.Rename(tmp.Name(), c.Path(key)); err != nil {
		os.Remove(tmp.Name())
		return n, err
	}
	return n, nil
}

// Open reads a cached file.
func (c *Cache) Open(key string) (io.ReadCloser, error) {
	return os.Open(c.Path(key))
}

// Remove drops a cached file.
func (c *Cache) Remove(key string) error {
	err := os.Remove(c.Path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
