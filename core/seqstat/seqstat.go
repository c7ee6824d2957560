// core/seqstat/seqstat.go
package seqstat

import "fmt"

// Summary holds the composition metrics of one finalized sequence.
type Summary struct {
	Length int     // count of valid bases (A,C,G,T and the RNA variant U)
	GC     float64 // (G+C) / Length, 0 when Length is 0
}

// Analyze computes composition metrics over seq. It is
// case-insensitive and pure. Unresolved 'N' placeholders and any other
// non-base symbol are excluded from both the length and the GC
// denominator.
func Analyze(seq []byte) Summary {
	var gc, total int
	for _, b := range seq {
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		switch b {
		case 'G', 'C':
			gc++
			total++
		case 'A', 'T', 'U':
			total++
		}
	}
	s := Summary{Length: total}
	if total > 0 {
		s.GC = float64(gc) / float64(total)
	}
	return s
}

// Render formats the summary as the canonical two-line text block.
func (s Summary) Render() string {
	return fmt.Sprintf("Length: %d\nGC Content: %.6f", s.Length, s.GC)
}
