package mac

import (
	"fmt"

	"github.com/samber/lo"
)

// Stage selects how the raw accumulation is folded into the partial-sum
// chain. One stage governs every kernel of a run.
type Stage int

const (
	StageFirst Stage = iota
	StageMode
	StageLast
)

func (s Stage) String() string {
	switch s {
	case StageFirst:
		return "first"
	case StageMode:
		return "mode"
	case StageLast:
		return "last"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Validate rejects values outside the three defined stages.
func (s Stage) Validate() error {
	if s < StageFirst || s > StageLast {
		return fmt.Errorf("%w: %v", ErrStage, s)
	}
	return nil
}

// StageFromFlags maps the PS_FIRST/PS_MODE/PS_LAST flags to a stage. The flags
// must be one-hot.
func StageFromFlags(first, mode, last bool) (Stage, error) {
	flags := []bool{first, mode, last}
	if n := lo.Count(flags, true); n != 1 {
		return 0, fmt.Errorf("%w (got %d set)", ErrStage, n)
	}
	_, idx, _ := lo.FindIndexOf(flags, func(f bool) bool { return f })
	return Stage(idx), nil
}

// ParseStage accepts a stage name as printed by Stage.String.
func ParseStage(name string) (Stage, error) {
	for _, s := range []Stage{StageFirst, StageMode, StageLast} {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown stage %q", ErrStage, name)
}

// ParseFlag accepts exactly "0" or "1".
func ParseFlag(s, name string) (bool, error) {
	switch s {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, fmt.Errorf("%s must be '0' or '1', got %q", name, s)
}
