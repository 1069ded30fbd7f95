package pitch

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Scale names a set of allowed scale degrees.
type Scale int

const (
	Chromatic Scale = iota
	Major
	Minor
	HarmonicMinor
	PentatonicMajor
	PentatonicMinor
	Blues
	Dorian
	Mixolydian
)

var (
	ErrUnknownKey   = errors.New("pitch: unknown key")
	ErrUnknownScale = errors.New("pitch: unknown scale")
)

var scaleNames = [...]string{
	Chromatic:       "chromatic",
	Major:           "major",
	Minor:           "minor",
	HarmonicMinor:   "harmonic_minor",
	PentatonicMajor: "pentatonic_major",
	PentatonicMinor: "pentatonic_minor",
	Blues:           "blues",
	Dorian:          "dorian",
	Mixolydian:      "mixolydian",
}

var scaleDegrees = [...][]int{
	Chromatic:       {0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	Major:           {0, 2, 4, 5, 7, 9, 11},
	Minor:           {0, 2, 3, 5, 7, 8, 10},
	HarmonicMinor:   {0, 2, 3, 5, 7, 8, 11},
	PentatonicMajor: {0, 2, 4, 7, 9},
	PentatonicMinor: {0, 3, 5, 7, 10},
	Blues:           {0, 3, 5, 6, 7, 10},
	Dorian:          {0, 2, 3, 5, 7, 9, 10},
	Mixolydian:      {0, 2, 4, 5, 7, 9, 10},
}

func (s Scale) String() string {
	if s < 0 || int(s) >= len(scaleNames) {
		return fmt.Sprintf("Scale(%d)", int(s))
	}
	return scaleNames[s]
}

// ParseScale resolves a scale name such as "major" or "harmonic_minor".
// Matching ignores case; spaces and hyphens are accepted for underscores.
func ParseScale(name string) (Scale, error) {
	norm := strings.ToLower(strings.TrimSpace(name))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	for i, n := range scaleNames {
		if n == norm {
			return Scale(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownScale, name)
}

var naturalPitchClass = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// ParseKey returns the pitch class (C = 0 … B = 11) of a key name such as
// "C", "F#" or "Bb".
func ParseKey(name string) (int, error) {
	k := strings.TrimSpace(name)
	if k == "" || len(k) > 2 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKey, name)
	}
	pc, ok := naturalPitchClass[strings.ToUpper(k[:1])[0]]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKey, name)
	}
	if len(k) == 2 {
		switch k[1] {
		case '#':
			pc++
		case 'b':
			pc--
		default:
			return 0, fmt.Errorf("%w: %q", ErrUnknownKey, name)
		}
	}
	return (pc + 12) % 12, nil
}

// FrequencyToMIDI converts Hz to a fractional MIDI note (A4 = 69 = 440 Hz).
func FrequencyToMIDI(hz float64) float64 { return 69 + 12*math.Log2(hz/440) }

// MIDIToFrequency is the inverse of FrequencyToMIDI.
func MIDIToFrequency(note float64) float64 { return 440 * math.Pow(2, (note-69)/12) }

// searchOctaves bounds the nearest-note search around the input.
const searchOctaves = 2

// Quantizer snaps frequencies to the notes of one key and scale.
type Quantizer struct {
	root    int
	scale   Scale
	allowed [12]bool
}

// NewQuantizer parses key and scale names.
func NewQuantizer(key, scale string) (*Quantizer, error) {
	q := &Quantizer{}
	if err := q.Set(key, scale); err != nil {
		return nil, err
	}
	return q, nil
}

// Set changes key and scale. On error the quantizer keeps its previous
// settings.
func (q *Quantizer) Set(key, scale string) error {
	root, err := ParseKey(key)
	if err != nil {
		return err
	}
	s, err := ParseScale(scale)
	if err != nil {
		return err
	}

	q.root = root
	q.scale = s
	q.allowed = [12]bool{}
	for _, deg := range scaleDegrees[s] {
		q.allowed[(root+deg)%12] = true
	}
	return nil
}

// Root returns the key's pitch class.
func (q *Quantizer) Root() int { return q.root }

// Scale returns the active scale.
func (q *Quantizer) Scale() Scale { return q.scale }

// NearestNote returns the MIDI note of the allowed pitch closest to hz,
// searching two octaves either side. Ties resolve downward.
func (q *Quantizer) NearestNote(hz float64) (int, bool) {
	if !(hz > 0) || math.IsInf(hz, 0) {
		return 0, false
	}
	midi := FrequencyToMIDI(hz)
	center := int(math.Round(midi))

	best, bestDist := 0, math.Inf(1)
	for n := center - 12*searchOctaves; n <= center+12*searchOctaves; n++ {
		if !q.allowed[((n%12)+12)%12] {
			continue
		}
		if dist := math.Abs(float64(n) - midi); dist < bestDist {
			best, bestDist = n, dist
		}
	}
	return best, !math.IsInf(bestDist, 1)
}

// Quantize returns the frequency of the nearest allowed note, or hz
// unchanged when it is not a positive finite frequency.
func (q *Quantizer) Quantize(hz float64) float64 {
	n, ok := q.NearestNote(hz)
	if !ok {
		return hz
	}
	return MIDIToFrequency(float64(n))
}
