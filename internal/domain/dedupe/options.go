package dedupe

// Option applies a configuration option to the key deduper.
type Option func(*keyDeduper)

// WithMaxKeys sets how many keys are remembered.
// If maxKeys > 0: the oldest completed key is evicted when full.
// If maxKeys <= 0: unbounded.
func WithMaxKeys(maxKeys int) Option {
	return func(d *keyDeduper) {
		d.maxKeys = maxKeys
	}
}
