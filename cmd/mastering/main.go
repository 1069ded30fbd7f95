// Command mastering renders an audio file through the mastering chain.
//
// Usage:
//
//	mastering -in mix.wav -out master.wav [flags]
//
// Input may be WAV, FLAC, MP3 or Ogg Vorbis; output is 16-bit stereo WAV.
// Without -preset the preset named by $MASTERING_PRESET is used, and
// without either the built-in default preset.
//
// Examples:
//
//	mastering -in mix.wav -out master.wav
//	mastering -in mix.flac -out master.wav -preset loud.yaml -normalize
//	mastering -in vocal.wav -out tuned.wav -bypass reverb,delay
//	mastering -preset loud.yaml -dump-config
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-mastering/dsp/core"
	"github.com/cwbudde/algo-mastering/dsp/effectchain"
	"github.com/cwbudde/algo-mastering/dsp/meter"
	"github.com/cwbudde/algo-mastering/dsp/stream"
)

const envPreset = "MASTERING_PRESET"

type options struct {
	in         string
	out        string
	preset     string
	normalize  bool
	target     float64
	bypass     string
	dumpConfig bool
}

func main() {
	var opts options
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.StringVar(&opts.in, "in", "", "input audio file (.wav, .flac, .mp3, .ogg)")
	flag.StringVar(&opts.out, "out", "", "output WAV file")
	flag.StringVar(&opts.preset, "preset", "", "YAML preset (default: $"+envPreset+" or the built-in preset)")
	flag.BoolVar(&opts.normalize, "normalize", false, "peak-normalize the rendered audio")
	flag.Float64Var(&opts.target, "target", meter.DefaultNormalizeTarget, "peak target for -normalize (linear)")
	flag.StringVar(&opts.bypass, "bypass", "", "comma-separated stages to skip, e.g. reverb,delay")
	flag.BoolVar(&opts.dumpConfig, "dump-config", false, "print the effective chain configuration and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mastering -in FILE -out FILE.wav [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders an audio file through the mastering chain.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nStages: %s\n", strings.Join(stageNames(), ", "))
	}
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	log.SetLevel(level)

	if err := run(opts, log); err != nil {
		log.WithError(err).Error("mastering failed")
		os.Exit(1)
	}
}

func stageNames() []string {
	var names []string
	for _, s := range effectchain.Stages() {
		names = append(names, s.String())
	}
	return names
}

func loadPreset(path string) (effectchain.Config, error) {
	if path == "" {
		path = os.Getenv(envPreset)
	}
	if path == "" {
		return effectchain.DefaultPreset()
	}
	return effectchain.LoadConfig(path)
}

func parseBypass(list string) ([]effectchain.Stage, error) {
	var stages []effectchain.Stage
	for _, name := range strings.Split(list, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		s, err := effectchain.ParseStage(name)
		if err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	return stages, nil
}

func buildChain(sampleRate float64, opts options, log logrus.FieldLogger) (*effectchain.Chain, error) {
	cfg, err := loadPreset(opts.preset)
	if err != nil {
		return nil, err
	}
	bypass, err := parseBypass(opts.bypass)
	if err != nil {
		return nil, err
	}

	chain, err := effectchain.New(sampleRate, effectchain.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err := chain.Apply(cfg.Normalize()); err != nil {
		return nil, err
	}
	for _, s := range bypass {
		chain.Remove(s)
	}

	return chain, nil
}

func run(opts options, log logrus.FieldLogger) error {
	if opts.dumpConfig {
		chain, err := buildChain(44100, opts, log)
		if err != nil {
			return err
		}
		data, err := chain.Config().Marshal()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	if opts.in == "" || opts.out == "" {
		return errors.New("both -in and -out are required")
	}

	src, format, err := stream.Open(opts.in)
	if err != nil {
		return err
	}
	defer src.Close()

	sampleRate := float64(format.SampleRate)
	chain, err := buildChain(sampleRate, opts, log)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"input":       opts.in,
		"sample_rate": int(format.SampleRate),
		"channels":    format.NumChannels,
		"stages":      chain.ActiveStages(),
		"latency":     chain.Latency(),
	}).Info("rendering")

	mono := format.NumChannels == 1
	in, err := newLevelTap(sampleRate, mono)
	if err != nil {
		return err
	}

	// The tail flushes the lookahead and corrector delay lines; the same
	// number of frames is dropped from the head.
	latency := chain.Latency()
	padded := padTail(in.wrap(src), latency)

	var proc *stream.Processor
	if mono {
		proc = stream.NewMono(padded, chain)
	} else {
		proc = stream.New(padded, chain)
	}

	left, right, err := stream.ReadAll(proc)
	if err != nil {
		return fmt.Errorf("render %s: %w", opts.in, err)
	}
	skip := min(latency, len(left))
	left, right = left[skip:], right[skip:]
	logLevels(log, "input", in)

	if opts.normalize {
		gain := meter.NormalizePeak(opts.target, left, right)
		log.WithField("gain_db", fmt.Sprintf("%.2f", core.LinearToDB(gain))).Info("peak normalized")
	}

	out, err := newLevelTap(sampleRate, mono)
	if err != nil {
		return err
	}
	out.measure(left, right)
	logLevels(log, "output", out)

	if err := stream.WriteWAV(opts.out, stream.Samples(left, right), format.SampleRate); err != nil {
		return err
	}
	log.WithField("output", opts.out).Info("done")

	return nil
}

func logLevels(log logrus.FieldLogger, label string, t *levelTap) {
	l := t.levels.Result()
	entry := log.WithFields(logrus.Fields{
		"peak_db":         fmt.Sprintf("%.2f", l.PeakDB),
		"rms_db":          fmt.Sprintf("%.2f", l.RMSDB),
		"crest_db":        fmt.Sprintf("%.2f", l.CrestDB),
		"integrated_lufs": fmt.Sprintf("%.1f", t.loudness.Integrated()),
		"clipped":         l.Clipped,
	})
	if l.NonFinite > 0 {
		entry.WithField("non_finite", l.NonFinite).Warn(label + " levels")
		return
	}
	entry.Info(label + " levels")
}
