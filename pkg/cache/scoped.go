package cache

// ScopedKeyer wraps a Keyer with a prefix. The HTTP API uses it to keep
// entries of differently configured primary repositories apart when they
// share one Redis instance.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "fossrepo:foss:")
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

func (k *ScopedKeyer) MetadataKey(repoURL, group, name string) string {
	return k.prefix + k.inner.MetadataKey(repoURL, group, name)
}

func (k *ScopedKeyer) DescriptorKey(repoURL, coordinate string) string {
	return k.prefix + k.inner.DescriptorKey(repoURL, coordinate)
}
