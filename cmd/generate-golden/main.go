// Command generate-golden writes fibonacci/testdata/fibonacci_golden.json.
//
// Values come from a plain addition loop over math/big, independent of the
// fast-doubling kernel they are used to check.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/big"
	"os"

	"github.com/agbru/quickfib/internal/logging"
)

// extraIndices are checked in addition to 0..denseLimit.
var extraIndices = []uint64{500, 1000, 2000}

const denseLimit = 300

// fibBig returns F(n) by repeated addition.
func fibBig(n uint64) *big.Int {
	a, b := big.NewInt(0), big.NewInt(1)
	for range n {
		a.Add(a, b)
		a, b = b, a
	}
	return a
}

func indices() []uint64 {
	out := make([]uint64, 0, denseLimit+1+len(extraIndices))
	for n := uint64(0); n <= denseLimit; n++ {
		out = append(out, n)
	}
	return append(out, extraIndices...)
}

func write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	ns := indices()
	fmt.Fprintln(w, "[")
	for i, n := range ns {
		sep := ","
		if i == len(ns)-1 {
			sep = ""
		}
		fmt.Fprintf(w, "  {\"n\": %d, \"value\": %q}%s\n", n, fibBig(n).String(), sep)
	}
	fmt.Fprintln(w, "]")
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func main() {
	out := flag.String("o", "fibonacci/testdata/fibonacci_golden.json", "output path")
	flag.Parse()
	logger := logging.NewStdLoggerAdapter(log.New(os.Stderr, "generate-golden: ", 0))

	if err := write(*out); err != nil {
		logger.Error("write failed", err, logging.String("path", *out))
		os.Exit(1)
	}
	logger.Info("golden file written", logging.Int("entries", len(indices())), logging.String("path", *out))
}
