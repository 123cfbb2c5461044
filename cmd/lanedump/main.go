package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"psmac-go/internal/fixed"
	"psmac-go/internal/hexio"
	"psmac-go/internal/lanes"
	"psmac-go/internal/mac"
)

func main() {
	var (
		kernelPath  = flag.String("kernel", "", "Path to kernel hex file (32 lines)")
		featurePath = flag.String("feature", "", "Path to feature hex file (1 line)")
		row         = flag.Int("row", 0, "Kernel row to inspect")
		modeCode    = flag.String("mode", "11", "Mode code (00, 01, 10, 11)")
		sign        = flag.String("sign", "11", "8-bit signedness code <kernel><feature>")
		maxLanes    = flag.Int("lanes", 16, "Number of lanes to print (0 = all)")
	)
	flag.Parse()

	if *kernelPath == "" || *featurePath == "" {
		fmt.Fprintln(os.Stderr, "usage: lanedump --kernel <path> --feature <path> [--row N] [--mode M] [--sign S] [--lanes K]")
		flag.Usage()
		os.Exit(2)
	}

	mode, err := mac.ParseMode(*modeCode, *sign)
	if err != nil {
		log.Fatalf("parse mode: %v", err)
	}
	if *row < 0 || *row >= mac.Kernels {
		log.Fatalf("row out of range: %d (kernels=%d)", *row, mac.Kernels)
	}
	kernels, err := hexio.ReadVectors(*kernelPath, mac.Kernels, mac.VectorBits)
	if err != nil {
		log.Fatalf("read kernels: %v", err)
	}
	feature, err := hexio.ReadVector(*featurePath, mac.VectorBits)
	if err != nil {
		log.Fatalf("read feature: %v", err)
	}

	kl, err := lanes.Extract(kernels[*row], mode.Width, mode.KernelSigned)
	if err != nil {
		log.Fatalf("extract kernel: %v", err)
	}
	fl, err := lanes.Extract(feature, mode.Width, mode.FeatureSigned)
	if err != nil {
		log.Fatalf("extract feature: %v", err)
	}

	n := len(kl)
	if *maxLanes > 0 && *maxLanes < n {
		n = *maxLanes
	}
	fmt.Printf("row=%d mode=%s sign=%s lanes=%d\n", *row, mode.Code(), mode.SignCode(), len(kl))
	var acc fixed.Acc24
	for i := 0; i < len(kl); i++ {
		c := contribution(mode, kl[i], fl[i])
		acc.Add(c)
		if i < n {
			fmt.Printf("  lane=%d kernel=%d feature=%d contrib=%d acc=%d\n", i, kl[i], fl[i], c, acc.Value())
		}
	}
	fmt.Printf("accu=%d dot=%d\n", acc.Value(), mac.Dot(mode, kl, fl))
}

func contribution(m mac.Mode, k, f int32) int64 {
	if m.Width == 1 {
		if k == f {
			return 1
		}
		return -1
	}
	return fixed.MulWide(k, f)
}
