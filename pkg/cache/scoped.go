package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The serve mode uses this to keep per-deployment cache entries apart when
// several instances share one Redis.
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

// LevelKey generates a prefixed key for level caching.
func (k *ScopedKeyer) LevelKey(mode string, opts LevelKeyOpts) string {
	return k.prefix + k.inner.LevelKey(mode, opts)
}

// RenderKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) RenderKey(levelHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(levelHash, opts)
}
