package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one backend.
//
// Example usage:
//
//	// Keys for the staging server
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "meteo:staging:")
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

// RouteKey generates a prefixed key for route caching.
func (k *ScopedKeyer) RouteKey(networkHash, from, to string, opts RouteKeyOpts) string {
	return k.prefix + k.inner.RouteKey(networkHash, from, to, opts)
}

// NetworkKey generates a prefixed key for network summaries.
func (k *ScopedKeyer) NetworkKey(datasetHash string) string {
	return k.prefix + k.inner.NetworkKey(datasetHash)
}

// DatasetKey generates a prefixed key for fetched datasets.
func (k *ScopedKeyer) DatasetKey(source string) string {
	return k.prefix + k.inner.DatasetKey(source)
}
