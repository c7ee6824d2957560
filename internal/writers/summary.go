// internal/writers/summary.go
package writers

import (
	"compress/gzip"
	"fmt"
	"os"

	"seqsum-core/seqstat"
)

// WriteSummary serializes the rendered summary through a gzip stream
// to path, replacing any prior content. Any codec or write failure is
// returned with the underlying message; on failure the artifact is not
// left half-written with a valid trailer (the gzip stream is simply
// not finalized).
func WriteSummary(path string, s seqstat.Summary) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open output %s: %w", path, err)
	}
	gz := gzip.NewWriter(fh)
	if _, err := gz.Write([]byte(s.Render())); err != nil {
		_ = gz.Close()
		_ = fh.Close()
		return fmt.Errorf("write output %s: %w", path, err)
	}
	if err := gz.Close(); err != nil {
		_ = fh.Close()
		return fmt.Errorf("write output %s: %w", path, err)
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}
