package cache

// Keyer derives cache keys for the values taxmagick caches.
type Keyer interface {
	// ArchiveKey is the key for metadata about a downloaded taxdump archive.
	ArchiveKey(url string) string
}

// DefaultKeyer builds keys as "<kind>:<sha256 of parts>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArchiveKey hashes the archive URL.
func (DefaultKeyer) ArchiveKey(url string) string {
	return hashKey("archive", url)
}
