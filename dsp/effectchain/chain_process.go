package effectchain

// ProcessMono runs buf through every configured stage in place. Stereo-only
// stages are skipped.
func (c *Chain) ProcessMono(buf []float32) {
	if len(buf) == 0 {
		return
	}
	for s, rt := range c.stages {
		if rt == nil || c.shadowed(Stage(s)) || Stage(s).StereoOnly() {
			continue
		}
		rt.Process(buf)
	}
}

// ProcessStereo runs left and right through every configured stage in
// place. Only the first min(len(left), len(right)) frames are processed.
func (c *Chain) ProcessStereo(left, right []float32) {
	if len(left) == 0 || len(right) == 0 {
		return
	}
	for s, rt := range c.stages {
		if rt == nil || c.shadowed(Stage(s)) {
			continue
		}
		rt.ProcessStereo(left, right)
	}
}
