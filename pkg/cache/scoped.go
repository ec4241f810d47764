package cache

// ScopedKeyer wraps a Keyer with a prefix so that several installations can
// share one Redis instance without colliding.
//
// Example usage:
//
//	// Separate staging from production mirrors
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ArchiveKey generates a prefixed archive metadata key.
func (k *ScopedKeyer) ArchiveKey(url string) string {
	return k.prefix + k.inner.ArchiveKey(url)
}
