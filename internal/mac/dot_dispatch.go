package mac

import (
	"os"
	"runtime"

	"golang.org/x/sys/cpu"
)

var bipolarDotImpl = bipolarDotWordsGeneric

var forceGeneric = os.Getenv("PSMAC_GENERIC") == "1"

func init() {
	if forceGeneric {
		return
	}
	if hasPopcount() {
		bipolarDotImpl = bipolarDotWords
	}
}

func hasPopcount() bool {
	switch runtime.GOARCH {
	case "amd64":
		return cpu.X86.HasPOPCNT
	case "arm64":
		return true
	}
	return false
}

// PopcountEnabled reports whether 1-bit reductions use the packed popcount
// path.
func PopcountEnabled() bool {
	return !forceGeneric && hasPopcount()
}

// BipolarDot reduces packed 1-bit kernel and feature words holding n lanes.
func BipolarDot(kernel, feature []uint64, n int) int32 {
	return bipolarDotImpl(kernel, feature, n)
}
