// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"seqsum-core/fasta"
	"seqsum-core/kmer"
	"seqsum-core/seqstat"
	"seqsum/internal/cli"
	"seqsum/internal/cmdutil"
	"seqsum/internal/fetch"
	"seqsum/internal/version"
	"seqsum/internal/writers"
)

// RunContext drives one acquisition/analysis run and returns the
// process exit code: 0 success, 1 fatal runtime error, 2 usage error,
// 130 canceled.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("seqsum")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		fs.SetOutput(outw)
		fs.Usage()
		return flushCode(outw, stderr, 0)
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			return flushCode(outw, stderr, 0)
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(outw)
		fs.Usage()
		return flushCode(outw, stderr, 2)
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "seqsum version %s\n", version.Version)
		return flushCode(outw, stderr, 0)
	}

	client := fetch.NewClient(opts.Timeout)
	defer client.CloseIdle()

	raw, err := client.Fetch(parent, opts.Accession)
	if err != nil {
		return fatal(stderr, parent, err)
	}

	seq := fasta.Normalize(raw)

	if _, serr := os.Stat(opts.ModelFile); os.IsNotExist(serr) {
		cmdutil.Warnf(stderr, opts.Quiet, "model file %s not found; starting from an empty model", opts.ModelFile)
	}
	model, err := kmer.Load(opts.ModelFile)
	if err != nil {
		return fatal(stderr, parent, err)
	}

	seq = model.Impute(seq)
	sum := seqstat.Analyze(seq)

	if err := model.Save(opts.ModelFile); err != nil {
		return fatal(stderr, parent, err)
	}
	if err := writers.WriteSummary(opts.Output, sum); err != nil {
		return fatal(stderr, parent, err)
	}

	_, _ = fmt.Fprintln(outw, sum.Render())
	return flushCode(outw, stderr, 0)
}

// Run is the background-context convenience wrapper.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func fatal(stderr io.Writer, ctx context.Context, err error) int {
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return 130
	}
	_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
	return 1
}

func flushCode(outw *bufio.Writer, stderr io.Writer, code int) int {
	if err := outw.Flush(); writers.IsBrokenPipe(err) {
		return 0
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	return code
}
