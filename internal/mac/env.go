package mac

import (
	"os"
	"strconv"
)

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

var defaultWorkers = envInt("PSMAC_WORKERS", 0)
