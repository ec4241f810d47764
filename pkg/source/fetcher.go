package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/taxmagick/taxmagick/pkg/cache"
	"github.com/taxmagick/taxmagick/pkg/httputil"
	"github.com/taxmagick/taxmagick/pkg/observability"
)

// DefaultTTL is how long a downloaded archive is reused.
const DefaultTTL = 7 * 24 * time.Hour

// Fetcher resolves sources to local paths, downloading remote archives into
// Dir/archives.
//
// A Fetcher is not safe for concurrent use; the CLI and server each fetch
// once at startup.
type Fetcher struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Dir    string
	TTL    time.Duration
	Logger *log.Logger

	// Refresh ignores cached archives and downloads again.
	Refresh bool

	// Attempts and RetryDelay control retries of transient download
	// failures; the delay doubles after each attempt.
	Attempts   int
	RetryDelay time.Duration

	HTTP     *http.Client
	S3       S3Options
	S3Client ObjectGetter
}

// NewFetcher creates a fetcher storing archives under dir. A nil cache
// disables reuse; a nil keyer means [cache.DefaultKeyer].
func NewFetcher(c cache.Cache, keyer cache.Keyer, dir string, logger *log.Logger) *Fetcher {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Fetcher{
		Cache:      c,
		Keyer:      keyer,
		Dir:        dir,
		TTL:        DefaultTTL,
		Logger:     logger,
		Attempts:   3,
		RetryDelay: time.Second,
		HTTP:       NewHTTPClient(),
	}
}

// archiveEntry is the cached record of a completed download.
type archiveEntry struct {
	URL       string    `json:"url"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	Digest    string    `json:"blake3"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Fetch returns a local path for src. cached reports whether a previous
// download was reused.
func (f *Fetcher) Fetch(ctx context.Context, src string) (path string, cached bool, err error) {
	kind, u, err := Parse(src)
	if err != nil {
		return "", false, err
	}
	if kind == KindLocal {
		if _, err := os.Stat(u.Path); err != nil {
			return "", false, err
		}
		return u.Path, false, nil
	}

	key := f.Keyer.ArchiveKey(src)
	if !f.Refresh {
		if p, ok := f.lookup(ctx, key); ok {
			f.Logger.Debug("reusing archive", "url", src, "path", p)
			return p, true, nil
		}
	}

	dest := filepath.Join(f.Dir, "archives", cache.Hash([]byte(src))+archiveExt(u.Path))
	f.Logger.Info("downloading taxonomy dump", "url", src)

	entry, err := f.download(ctx, kind, u, dest)
	if err != nil {
		return "", false, fmt.Errorf("fetch %s: %w", src, err)
	}
	entry.URL = src
	f.store(ctx, key, entry)
	f.Logger.Debug("downloaded archive", "path", dest, "bytes", entry.Size, "blake3", entry.Digest)
	return dest, false, nil
}

// lookup returns the archive path recorded under key if the file is still
// there and unchanged.
func (f *Fetcher) lookup(ctx context.Context, key string) (string, bool) {
	hooks := observability.Cache()
	data, ok, err := f.Cache.Get(ctx, key)
	if err != nil || !ok {
		hooks.OnCacheMiss(ctx, "archive")
		return "", false
	}

	var entry archiveEntry
	if json.Unmarshal(data, &entry) != nil || !verify(entry) {
		hooks.OnCacheMiss(ctx, "archive")
		_ = f.Cache.Delete(ctx, key)
		return "", false
	}
	hooks.OnCacheHit(ctx, "archive")
	return entry.Path, true
}

func verify(entry archiveEntry) bool {
	file, err := os.Open(entry.Path)
	if err != nil {
		return false
	}
	defer file.Close()
	digest, size, err := cache.Digest(file)
	return err == nil && size == entry.Size && digest == entry.Digest
}

func (f *Fetcher) store(ctx context.Context, key string, entry archiveEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := f.Cache.Set(ctx, key, data, f.TTL); err != nil {
		f.Logger.Warn("could not record archive in cache", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "archive", len(data))
}

// download writes the object at u to dest through a temp file in the same
// directory, renamed into place once complete.
func (f *Fetcher) download(ctx context.Context, kind Kind, u *url.URL, dest string) (archiveEntry, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return archiveEntry{}, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return archiveEntry{}, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	fetch := func() error {
		if _, err := tmp.Seek(0, io.SeekStart); err != nil {
			return err
		}
		if err := tmp.Truncate(0); err != nil {
			return err
		}
		if kind == KindS3 {
			return f.downloadS3(ctx, u, tmp)
		}
		return f.downloadHTTP(ctx, u, tmp)
	}
	if err := httputil.Retry(ctx, f.Attempts, f.RetryDelay, fetch); err != nil {
		return archiveEntry{}, err
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return archiveEntry{}, err
	}
	digest, size, err := cache.Digest(tmp)
	if err != nil {
		return archiveEntry{}, err
	}
	if err := tmp.Close(); err != nil {
		return archiveEntry{}, err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return archiveEntry{}, err
	}
	return archiveEntry{Path: dest, Size: size, Digest: digest, FetchedAt: time.Now().UTC()}, nil
}
