package effectchain

import (
	"errors"
	"fmt"
	"strings"
)

// Stage identifies a chain slot. Stages are declared in processing order.
type Stage int

const (
	StageGate Stage = iota
	StagePitch
	StageDeEsser
	StageDynamicEQ
	StageEQ
	StageParallel
	StageCompressor
	StageSaturation
	StageTransient
	StageImager
	StageDelay
	StageReverb
	StageBass
	StageClipper
	StageLimiter

	numStages
)

// ErrUnknownStage is returned for stage names that do not exist.
var ErrUnknownStage = errors.New("effectchain: unknown stage")

var stageNames = [numStages]string{
	StageGate:       "gate",
	StagePitch:      "pitch",
	StageDeEsser:    "deesser",
	StageDynamicEQ:  "dynamic_eq",
	StageEQ:         "eq",
	StageParallel:   "parallel",
	StageCompressor: "compressor",
	StageSaturation: "saturation",
	StageTransient:  "transient",
	StageImager:     "imager",
	StageDelay:      "delay",
	StageReverb:     "reverb",
	StageBass:       "bass",
	StageClipper:    "clipper",
	StageLimiter:    "limiter",
}

func (s Stage) String() string {
	if s < 0 || s >= numStages {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// StereoOnly reports whether the stage is skipped for mono buffers.
func (s Stage) StereoOnly() bool {
	return s == StageImager || s == StageBass
}

// ParseStage resolves a stage name as used in YAML presets.
func ParseStage(name string) (Stage, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, sn := range stageNames {
		if sn == n {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStage, name)
}

// Stages returns every stage in processing order.
func Stages() []Stage {
	out := make([]Stage, numStages)
	for i := range out {
		out[i] = Stage(i)
	}
	return out
}
