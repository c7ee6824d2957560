// core/fasta/normalize.go
package fasta

// Normalize strips FASTA formatting from a raw record: header lines
// (those starting with '>') are dropped entirely, every remaining
// alphabetic byte is kept upper-cased in order, and everything else
// (whitespace, digits, punctuation) is discarded.
//
// No symbol validation happens here; non-ACGT letters survive and are
// resolved later by imputation.
func Normalize(raw []byte) []byte {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		b := raw[i]
		if b == '>' {
			for i < len(raw) && raw[i] != '\n' {
				i++
			}
			continue
		}
		switch {
		case b >= 'a' && b <= 'z':
			out = append(out, b-'a'+'A')
		case b >= 'A' && b <= 'Z':
			out = append(out, b)
		}
	}
	return out
}
