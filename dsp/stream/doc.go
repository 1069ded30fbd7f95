// Package stream connects the mastering engine to github.com/gopxl/beep.
//
// Processor wraps a beep.Streamer and runs a stereo (or mono) processor over
// every block it yields. Open decodes WAV, FLAC, MP3 and Ogg Vorbis files;
// ReadAll and Samples move whole signals between beep and the engine's
// []float32 channel buffers.
package stream
