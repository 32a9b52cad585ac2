package cache

// ScopedKeyer wraps a Keyer with a prefix so several tenants or
// deployments can share one backend.
//
// Example usage:
//
//	// Per-deployment keys in a shared Redis
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

// ChartKey generates a prefixed chart key.
func (k *ScopedKeyer) ChartKey(chart []byte) string {
	return k.prefix + k.inner.ChartKey(chart)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(chartHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(chartHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
