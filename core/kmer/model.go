// core/kmer/model.go
package kmer

// K is the context order: the number of preceding bases used as the
// lookup key for prediction.
const K = 2

const bases = "ACGT"

// Placeholder marks a base the model could not resolve.
const Placeholder = 'N'

// Model is an order-K context table: each K-base context maps to
// cumulative observation counts for A, C, G and T, in that order.
// Counts only ever increase.
//
// The table is not safe for concurrent use and its on-disk form assumes
// a single writer per model file across invocations.
type Model struct {
	counts map[string]*[4]uint64
}

// New returns an empty model.
func New() *Model {
	return &Model{counts: make(map[string]*[4]uint64)}
}

// baseIndex maps a canonical base to its count slot, or -1.
func baseIndex(b byte) int {
	switch b {
	case 'A':
		return 0
	case 'C':
		return 1
	case 'G':
		return 2
	case 'T':
		return 3
	}
	return -1
}

// Observe records one occurrence of base under ctx. Non-canonical
// bases are ignored.
func (m *Model) Observe(ctx string, base byte) {
	i := baseIndex(base)
	if i < 0 {
		return
	}
	arr := m.counts[ctx]
	if arr == nil {
		arr = new([4]uint64)
		m.counts[ctx] = arr
	}
	arr[i]++
}

// Predict returns the base with the strictly largest count under ctx.
// Ties keep the earliest base in A,C,G,T order. If the context is
// unseen or all its counts are zero, Predict returns Placeholder.
func (m *Model) Predict(ctx string) byte {
	arr := m.counts[ctx]
	if arr == nil {
		return Placeholder
	}
	var best uint64
	idx := -1
	for i := 0; i < 4; i++ {
		if arr[i] > best {
			best = arr[i]
			idx = i
		}
	}
	if idx < 0 {
		return Placeholder
	}
	return bases[idx]
}

// Count returns the stored count for base under ctx (zero when absent).
func (m *Model) Count(ctx string, base byte) uint64 {
	arr := m.counts[ctx]
	i := baseIndex(base)
	if arr == nil || i < 0 {
		return 0
	}
	return arr[i]
}

// Len reports the number of contexts with at least one observation.
func (m *Model) Len() int { return len(m.counts) }

// Impute resolves ambiguous bases in seq in place and returns seq.
//
// The scan runs left to right starting at index K; the first K bases
// are never predicted or observed (no context exists for them yet).
// At each position, a non-ACGT base is replaced by the model's
// prediction for the two preceding (already resolved) bases, or by
// Placeholder when prediction fails. A (possibly predicted) U is then
// rewritten to T. Finally the resolved base is observed under its
// context — imputed bases included, so the model reinforces its own
// guesses on repeated ambiguous contexts.
func (m *Model) Impute(seq []byte) []byte {
	if len(seq) < K {
		return seq
	}
	for i := K; i < len(seq); i++ {
		ctx := string(seq[i-K : i])
		b := seq[i]
		if baseIndex(b) < 0 {
			if g := m.Predict(ctx); g != Placeholder {
				b = g
			} else if b != 'U' {
				b = Placeholder
			}
			seq[i] = b
		}
		if b == 'U' {
			b = 'T'
			seq[i] = b
		}
		m.Observe(ctx, b)
	}
	return seq
}
