package dynamics

import "github.com/cwbudde/algo-mastering/dsp/core"

// ParallelConfig holds the parallel ("New York") compression parameters.
type ParallelConfig struct {
	Compressor CompressorConfig `yaml:"compressor"`
	// Mix is the wet proportion in [0, 1].
	Mix float64 `yaml:"mix"`
}

// DefaultParallelConfig returns a heavy 10:1 wet path at -30 dB, mixed 50%.
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		Compressor: CompressorConfig{
			ThresholdDB: -30,
			Ratio:       10,
			KneeDB:      6,
			AttackMs:    5,
			ReleaseMs:   150,
			MakeupDB:    0,
		},
		Mix: 0.5,
	}
}

// Normalize clamps the wet compressor settings and Mix, keeping fallback
// values for non-finite fields.
func (c ParallelConfig) Normalize(fallback ParallelConfig) ParallelConfig {
	return ParallelConfig{
		Compressor: c.Compressor.Normalize(fallback.Compressor),
		Mix:        core.ClampFinite(c.Mix, 0, 1, fallback.Mix),
	}
}

// ParallelCompressor blends a heavily compressed copy of the input with the
// dry signal: out = dry*(1-mix) + compressed*mix.
type ParallelCompressor struct {
	comp *Compressor
	mix  float64

	scratch [2][]float32
}

// NewParallelCompressor creates a parallel compressor. Scratch buffers grow
// to the largest block seen and are reused afterwards.
func NewParallelCompressor(sampleRate float64, cfg ParallelConfig) (*ParallelCompressor, error) {
	comp, err := NewCompressor(sampleRate, DefaultParallelConfig().Compressor)
	if err != nil {
		return nil, err
	}

	p := &ParallelCompressor{
		comp: comp,
		mix:  DefaultParallelConfig().Mix,
	}
	p.SetConfig(cfg)

	return p, nil
}

// SetConfig applies new parameters.
func (p *ParallelCompressor) SetConfig(cfg ParallelConfig) {
	cfg = cfg.Normalize(p.Config())
	p.comp.SetConfig(cfg.Compressor)
	p.mix = cfg.Mix
}

// Config returns the effective (clamped) configuration.
func (p *ParallelCompressor) Config() ParallelConfig {
	return ParallelConfig{Compressor: p.comp.Config(), Mix: p.mix}
}

// GainReductionDB reports the wet path's current gain in dB.
func (p *ParallelCompressor) GainReductionDB() float64 { return p.comp.GainReductionDB() }

// Reset clears the wet compressor state.
func (p *ParallelCompressor) Reset() { p.comp.Reset() }

// Process compresses a mono buffer in place.
func (p *ParallelCompressor) Process(buf []float32) {
	p.scratch[0] = core.EnsureLen32(p.scratch[0], len(buf))
	wet := p.scratch[0][:len(buf)]
	copy(wet, buf)

	p.comp.Process(wet)
	p.blend(buf, wet)
}

// ProcessStereo compresses left and right in place with linked detection.
func (p *ParallelCompressor) ProcessStereo(left, right []float32) {
	n := core.StereoLen(left, right)
	p.scratch[0] = core.EnsureLen32(p.scratch[0], n)
	p.scratch[1] = core.EnsureLen32(p.scratch[1], n)
	wetL := p.scratch[0][:n]
	wetR := p.scratch[1][:n]
	copy(wetL, left[:n])
	copy(wetR, right[:n])

	p.comp.ProcessStereo(wetL, wetR)
	p.blend(left[:n], wetL)
	p.blend(right[:n], wetR)
}

func (p *ParallelCompressor) blend(dry, wet []float32) {
	dryGain := 1 - p.mix
	for i := range dry {
		dry[i] = float32(float64(dry[i])*dryGain + float64(wet[i])*p.mix)
	}
}
