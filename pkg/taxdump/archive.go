package taxdump

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

var (
	// ErrUnsupportedFormat is returned for a path that is neither a
	// directory nor a known archive type.
	ErrUnsupportedFormat = errors.New("unsupported dump format")

	// ErrMissingMember is returned when the dump has no file of the
	// requested name.
	ErrMissingMember = errors.New("member not found in dump")
)

// Format identifies how a dump is stored on disk.
type Format int

const (
	FormatDir Format = iota
	FormatTar
	FormatTarGzip
	FormatTarXz
)

func (f Format) String() string {
	switch f {
	case FormatDir:
		return "directory"
	case FormatTar:
		return "tar"
	case FormatTarGzip:
		return "tar.gz"
	case FormatTarXz:
		return "tar.xz"
	default:
		return "unknown"
	}
}

// DetectFormat reports the format of the dump at p, looking at the file
// suffix for archives.
func DetectFormat(p string) (Format, error) {
	info, err := os.Stat(p)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return FormatDir, nil
	}
	switch name := strings.ToLower(p); {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return FormatTarGzip, nil
	case strings.HasSuffix(name, ".tar.xz"), strings.HasSuffix(name, ".txz"):
		return FormatTarXz, nil
	case strings.HasSuffix(name, ".tar"):
		return FormatTar, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, p)
}

// member is an open dump file. Closing it releases the archive as well.
type member struct {
	io.Reader
	closers []io.Closer
}

func (m *member) Close() error {
	var first error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openMember opens the file called name inside the dump. Archive entries
// match on their base name, so a leading directory is tolerated.
func openMember(p string, format Format, name string) (io.ReadCloser, error) {
	if format == FormatDir {
		f, err := os.Open(filepath.Join(p, name))
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s in %s", ErrMissingMember, name, p)
		}
		return f, err
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	m := &member{closers: []io.Closer{f}}

	var r io.Reader = f
	switch format {
	case FormatTarGzip:
		gzr, err := gzip.NewReader(f)
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		m.closers = append(m.closers, gzr)
		r = gzr
	case FormatTarXz:
		xzr, err := xz.NewReader(f)
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		r = xzr
	}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			m.Close()
			return nil, fmt.Errorf("%w: %s in %s", ErrMissingMember, name, p)
		}
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("read header: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && path.Base(hdr.Name) == name {
			m.Reader = tr
			return m, nil
		}
	}
}
