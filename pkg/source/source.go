// Package source obtains taxonomy dump archives.
//
// A source is a local path (file or directory), an http(s) URL or an
// s3://bucket/key URL. Remote archives are downloaded once into the cache
// directory and reused until their metadata entry expires:
//
//	f := source.NewFetcher(c, nil, cacheDir, logger)
//	path, cached, err := f.Fetch(ctx, source.DefaultURL)
//
// The metadata entry (size and BLAKE3 digest of the downloaded file) lives
// in a [cache.Cache], so it can be shared through Redis while the archive
// itself stays on local disk.
package source

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// DefaultURL is the NCBI taxonomy dump.
const DefaultURL = "https://ftp.ncbi.nlm.nih.gov/pub/taxonomy/taxdump.tar.gz"

var (
	// ErrUnsupportedScheme is returned for a URL scheme other than file,
	// http, https or s3.
	ErrUnsupportedScheme = errors.New("unsupported source scheme")

	// ErrNotFound is returned when the remote object does not exist.
	ErrNotFound = errors.New("source not found")

	// ErrNetwork is returned for transport failures and unexpected
	// responses.
	ErrNetwork = errors.New("network error")
)

// Kind classifies a source string.
type Kind int

const (
	KindLocal Kind = iota
	KindHTTP
	KindS3
)

// Parse classifies src. Strings without a scheme are local paths.
func Parse(src string) (Kind, *url.URL, error) {
	if !strings.Contains(src, "://") {
		return KindLocal, &url.URL{Path: src}, nil
	}
	u, err := url.Parse(src)
	if err != nil {
		return 0, nil, err
	}
	switch u.Scheme {
	case "file":
		return KindLocal, u, nil
	case "http", "https":
		return KindHTTP, u, nil
	case "s3":
		if u.Host == "" || strings.Trim(u.Path, "/") == "" {
			return 0, nil, errors.New("s3 source must be s3://bucket/key")
		}
		return KindS3, u, nil
	}
	return 0, nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
}

// archiveExt keeps the archive suffix of the remote name so the local copy
// is still recognized by its extension.
func archiveExt(name string) string {
	name = strings.ToLower(path.Base(name))
	for _, ext := range []string{".tar.gz", ".tgz", ".tar.xz", ".txz", ".tar"} {
		if strings.HasSuffix(name, ext) {
			return ext
		}
	}
	return ".tar.gz"
}
