package fs

import (
	"io"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/tsmulti/internal/core/domain"
	"go.trai.ch/tsmulti/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// DefaultHashCacheSize bounds the number of cached file hashes.
const DefaultHashCacheSize = 4096

type fileStamp struct {
	size    int64
	modTime time.Time
}

type cachedHash struct {
	stamp fileStamp
	sum   uint64
}

// Hasher computes xxhash digests of file contents. Digests are cached by path
// and invalidated when the file's size or modification time changes, which
// keeps watch-mode rebuilds from rehashing untouched sources.
type Hasher struct {
	cache *lru.Cache[string, cachedHash]
}

// NewHasher creates a Hasher caching up to size digests.
func NewHasher(size int) (*Hasher, error) {
	cache, err := lru.New[string, cachedHash](size)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create hash cache")
	}
	return &Hasher{cache: cache}, nil
}

// HashFile computes the XXHash of a file's content.
func (h *Hasher) HashFile(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}
	stamp := fileStamp{size: info.Size(), modTime: info.ModTime()}

	if cached, ok := h.cache.Get(path); ok && cached.stamp == stamp {
		return cached.sum, nil
	}

	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	digest := xxhash.New()
	if _, err := io.Copy(digest, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}

	sum := digest.Sum64()
	h.cache.Add(path, cachedHash{stamp: stamp, sum: sum})
	return sum, nil
}

// HashBytes returns the XXHash of data.
func (*Hasher) HashBytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}
