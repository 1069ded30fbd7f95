package effectchain

// Context provides environmental information that stage runtimes need.
type Context struct {
	SampleRate float64
}
