// core/kmer/persist.go
package kmer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Load reads a model file written by Save. A missing file yields an
// empty model; lines that fail to parse are skipped.
func Load(path string) (*Model, error) {
	m := New()
	fh, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	defer func() { _ = fh.Close() }()
	if err := m.ReadFrom(fh); err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return m, nil
}

// ReadFrom merges "<ctx> <base> <count>" lines from r into the model.
// Malformed lines (wrong field count, context length != K, non-ACGT
// base, unparsable count) are ignored.
func (m *Model) ReadFrom(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		f := strings.Fields(sc.Text())
		if len(f) != 3 || len(f[0]) != K || len(f[1]) != 1 {
			continue
		}
		i := baseIndex(f[1][0])
		if i < 0 {
			continue
		}
		n, err := strconv.ParseUint(f[2], 10, 64)
		if err != nil {
			continue
		}
		arr := m.counts[f[0]]
		if arr == nil {
			arr = new([4]uint64)
			m.counts[f[0]] = arr
		}
		arr[i] = n
	}
	return sc.Err()
}

// Save rewrites path with the model's non-zero entries, one
// "<ctx> <base> <count>" line each, in sorted context order.
func (m *Model) Save(path string) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("model %s: %w", path, err)
	}
	w := bufio.NewWriter(fh)
	if err := m.WriteTo(w); err != nil {
		_ = fh.Close()
		return fmt.Errorf("model %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		_ = fh.Close()
		return fmt.Errorf("model %s: %w", path, err)
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("model %s: %w", path, err)
	}
	return nil
}

// WriteTo emits the non-zero entries to w, sorted by context then base.
func (m *Model) WriteTo(w io.Writer) error {
	ctxs := make([]string, 0, len(m.counts))
	for c := range m.counts {
		ctxs = append(ctxs, c)
	}
	sort.Strings(ctxs)
	for _, c := range ctxs {
		arr := m.counts[c]
		for i := 0; i < 4; i++ {
			if arr[i] == 0 {
				continue
			}
			if _, err := fmt.Fprintf(w, "%s %c %d\n", c, bases[i], arr[i]); err != nil {
				return err
			}
		}
	}
	return nil
}
