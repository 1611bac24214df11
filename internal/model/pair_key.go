package model

// PairKey identifies an unordered currency pair. Keys are canonicalized to
// descending lexicographic symbol order so a pool quoting A/B and another
// quoting B/A collapse to the same key; the descending order keeps the
// chain's native coin in the base slot for typical pairs (VRSC-DAI, not
// DAI-VRSC). Canonicalization is total and stable across runs.
type PairKey struct {
	Base   string
	Target string
}

// NewPairKey builds the canonical key for two symbols. The second return
// value reports whether the symbols were swapped to reach canonical order;
// callers that fold a quote into the canonical orientation must invert the
// price and swap per-side quantities when it is true.
func NewPairKey(base, target string) (PairKey, bool) {
	if target > base {
		return PairKey{Base: target, Target: base}, true
	}
	return PairKey{Base: base, Target: target}, false
}

// String renders the key as "BASE-TARGET".
func (k PairKey) String() string {
	return k.Base + "-" + k.Target
}

// Less orders keys lexicographically, giving TickerSet its stable order.
func (k PairKey) Less(other PairKey) bool {
	if k.Base != other.Base {
		return k.Base < other.Base
	}
	return k.Target < other.Target
}
