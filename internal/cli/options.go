// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"seqsum/internal/version"
)

// Options holds all CLI flags and the positional identifier.
type Options struct {
	// Input
	Accession string // local path or remote accession (positional)

	// State / output paths
	ModelFile string
	Output    string

	// Networking
	Timeout time.Duration

	// Behaviour
	Quiet   bool
	Version bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: nucleotide sequence summary with context-model imputation

Fetches a nucleotide record (local file or NCBI accession), imputes
ambiguous bases from a persisted order-2 context model, and reports
sequence length and GC content.

Version: %s

Usage: %s [flags] <path-or-accession>
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// Parse is the top-level call for CLI parsing.
func Parse() (Options, error) { return ParseArgs(flag.CommandLine, nil) }

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	fs.StringVar(&opt.ModelFile, "model", "kmer_model.txt", "context-model state file [kmer_model.txt]")
	fs.StringVar(&opt.Output, "output", "summary.gz", "compressed summary artifact [summary.gz]")
	fs.DurationVar(&opt.Timeout, "timeout", 30*time.Second, "per-attempt HTTP timeout [30s]")
	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress warnings on stderr [false]")

	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}

	// Validation
	switch fs.NArg() {
	case 0:
		return opt, errors.New("exactly one <path-or-accession> argument is required")
	case 1:
		opt.Accession = fs.Arg(0)
	default:
		return opt, fmt.Errorf("unexpected extra arguments: %v", fs.Args()[1:])
	}
	if opt.ModelFile == "" {
		return opt, errors.New("--model must not be empty")
	}
	if opt.Output == "" {
		return opt, errors.New("--output must not be empty")
	}
	if opt.Timeout <= 0 {
		return opt, errors.New("--timeout must be > 0")
	}
	return opt, nil
}
