package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"psmac-go/internal/hexio"
)

func main() {
	var (
		expectedPath = flag.String("expected", "", "Path to golden dump")
		actualPath   = flag.String("actual", "", "Path to DUT dump")
		format       = flag.String("format", "dec", "Dump format: dec, hex32, hex8, bin8")
		maxReport    = flag.Int("max", 32, "Maximum mismatches to print (0 = all)")
	)
	flag.Parse()

	if *expectedPath == "" || *actualPath == "" {
		fmt.Fprintln(os.Stderr, "missing required --expected or --actual")
		flag.Usage()
		os.Exit(2)
	}

	f, err := hexio.ParseFormat(*format)
	if err != nil {
		log.Fatalf("parse format: %v", err)
	}
	expected, err := hexio.ReadDump(*expectedPath, f)
	if err != nil {
		log.Fatalf("read expected: %v", err)
	}
	actual, err := hexio.ReadDump(*actualPath, f)
	if err != nil {
		log.Fatalf("read actual: %v", err)
	}

	mismatches, lenErr := hexio.CompareDumps(expected, actual)
	for i, m := range mismatches {
		if *maxReport > 0 && i >= *maxReport {
			fmt.Printf("  ... %d more\n", len(mismatches)-i)
			break
		}
		fmt.Printf("  kernel=%d expected=%d actual=%d delta=%d\n", m.Index, m.Expected, m.Actual, m.Actual-m.Expected)
	}
	if lenErr != nil {
		log.Fatalf("compare: %v", lenErr)
	}
	fmt.Printf("format=%s values=%d mismatches=%d\n", f, len(expected), len(mismatches))
	if len(mismatches) > 0 {
		os.Exit(1)
	}
}
