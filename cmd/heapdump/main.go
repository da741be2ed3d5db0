// Command heapdump builds a d-ary max-heap from a batch of integers
// and prints the raw slot array.
//
// Input is "n d" followed by n integers, whitespace separated, from
// stdin or from a file argument. The output is the heap's internal
// array layout space-separated on one line, not a sorted sequence.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/TallyKit/tally/pkg/dheap"
	"github.com/TallyKit/tally/pkg/input"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "heapdump - build a d-ary max-heap and dump its slot array\n\n")
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: heapdump [file]\n\n")
		fmt.Fprintf(flag.CommandLine.Output(), "Reads \"n d\" followed by n integers from the file, or stdin\n")
		fmt.Fprintf(flag.CommandLine.Output(), "when no file is given. .gz and .zst files are decompressed.\n")
	}
	flag.Parse()

	var in io.Reader = os.Stdin
	if flag.NArg() > 0 {
		src, err := input.Open(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "heapdump: %v\n", err)
			os.Exit(1)
		}
		defer src.Close()
		in = src
	}

	if err := run(in, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "heapdump: %v\n", err)
		os.Exit(1)
	}
}

// run reads one heap description and writes the slot dump.
func run(in io.Reader, out io.Writer) error {
	r := input.NewReader(in)

	n, err := r.Count()
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	d, err := r.Arity()
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	values, err := r.Values(n)
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	h, err := dheap.New[int64, int64](d)
	if err != nil {
		return err
	}

	entries := make([]dheap.Entry[int64, int64], len(values))
	for i, v := range values {
		entries[i] = dheap.Entry[int64, int64]{Key: v, Value: v}
	}
	h.Build(entries)

	fields := make([]string, 0, h.Len())
	for _, e := range h.Slots() {
		fields = append(fields, fmt.Sprintf("%d", e.Key))
	}
	if _, err := fmt.Fprintln(out, strings.Join(fields, " ")); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
