package config

import (
	"time"

	"git.lost.host/meutraa/pitchtrainer/internal/game"
	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"
)

const Version = "0.3.0"

type Config struct {
	SamplingPeriod      time.Duration
	ScrollSpeed         float64
	NoteSpacing         float64
	ActivationBand      float64
	ConfidenceThreshold float64

	RefreshRate float64
	SampleRate  uint
	WindowSize  int

	Sequence string // builtin name or a .txt/.mid file
	Input    string // recorded take, empty for the microphone
	LogFile  string
	Debug    bool
}

func Default() *Config {
	return &Config{
		SamplingPeriod:      100 * time.Millisecond,
		ScrollSpeed:         5,
		NoteSpacing:         200,
		ActivationBand:      20,
		ConfidenceThreshold: 0.9,
		RefreshRate:         60,
		SampleRate:          44100,
		WindowSize:          2048,
		Sequence:            "demo",
		LogFile:             "pitchtrainer.log",
	}
}

// Parse reads flags, falling back to PITCHTRAINER_* environment variables
func Parse(args []string) (*Config, error) {
	c := &Config{}
	app := kingpin.New("pitchtrainer", "Play the scrolling notes on your instrument.")
	app.Version(Version)
	app.HelpFlag.Short('h')

	app.Flag("sample-period", "Pitch sampling period").Default("100ms").Envar("PITCHTRAINER_SAMPLE_PERIOD").DurationVar(&c.SamplingPeriod)
	app.Flag("scroll-speed", "Distance a note moves per frame").Default("5").Short('s').Envar("PITCHTRAINER_SCROLL_SPEED").Float64Var(&c.ScrollSpeed)
	app.Flag("spacing", "Distance between spawned notes").Default("200").Short('S').Envar("PITCHTRAINER_SPACING").Float64Var(&c.NoteSpacing)
	app.Flag("band", "Half width of the activation band around the target line").Default("20").Short('b').Envar("PITCHTRAINER_BAND").Float64Var(&c.ActivationBand)
	app.Flag("confidence", "Minimum pitch clarity to accept a sample").Default("0.9").Short('c').Envar("PITCHTRAINER_CONFIDENCE").Float64Var(&c.ConfidenceThreshold)
	app.Flag("refresh-rate", "Frames per second").Default("60").Short('R').Envar("PITCHTRAINER_REFRESH_RATE").Float64Var(&c.RefreshRate)
	app.Flag("sample-rate", "Capture sample rate").Default("44100").Envar("PITCHTRAINER_SAMPLE_RATE").UintVar(&c.SampleRate)
	app.Flag("window", "Samples per pitch estimate").Default("2048").Short('w').Envar("PITCHTRAINER_WINDOW").IntVar(&c.WindowSize)
	app.Flag("sequence", "Builtin sequence name, or a .txt or .mid file").Default("demo").Short('q').Envar("PITCHTRAINER_SEQUENCE").StringVar(&c.Sequence)
	app.Flag("input", "Recorded take (.wav, .mp3, .ogg) to use instead of the microphone").Short('i').Envar("PITCHTRAINER_INPUT").ExistingFileVar(&c.Input)
	app.Flag("log-file", "Log destination").Default("pitchtrainer.log").Envar("PITCHTRAINER_LOG_FILE").StringVar(&c.LogFile)
	app.Flag("debug", "Debug logging").Short('d').Envar("PITCHTRAINER_DEBUG").BoolVar(&c.Debug)

	if _, err := app.Parse(args); nil != err {
		return nil, err
	}
	if err := c.Validate(); nil != err {
		return nil, err
	}
	return c, nil
}

// Validate checks the scroll constants keep exactly one note judgeable:
// a spacing wider than the band means two notes never share it, and a
// speed no wider than the band means no note can skip it.
func (c *Config) Validate() error {
	switch {
	case c.SamplingPeriod <= 0:
		return errors.New("sample period must be positive")
	case c.ScrollSpeed <= 0:
		return errors.New("scroll speed must be positive")
	case c.ActivationBand <= 0:
		return errors.New("activation band must be positive")
	case c.NoteSpacing <= 2*c.ActivationBand:
		return errors.Errorf("spacing %v must exceed the band width %v", c.NoteSpacing, 2*c.ActivationBand)
	case c.ScrollSpeed > 2*c.ActivationBand:
		return errors.Errorf("scroll speed %v must not exceed the band width %v", c.ScrollSpeed, 2*c.ActivationBand)
	case c.ConfidenceThreshold < 0 || c.ConfidenceThreshold >= 1:
		return errors.New("confidence must be in [0, 1)")
	case c.RefreshRate <= 0:
		return errors.New("refresh rate must be positive")
	case c.SampleRate == 0:
		return errors.New("sample rate must be positive")
	case c.WindowSize < 64:
		return errors.New("window must be at least 64 samples")
	}
	return nil
}

func (c *Config) FramePeriod() time.Duration {
	return time.Duration(float64(time.Second) / c.RefreshRate)
}

func (c *Config) Settings() game.Settings {
	return game.Settings{
		ScrollSpeed:    c.ScrollSpeed,
		NoteSpacing:    c.NoteSpacing,
		ActivationBand: c.ActivationBand,
	}
}
