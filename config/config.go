// Package config loads sortbench settings from defaults, an optional YAML
// file, SORTBENCH_* environment variables, command-line flags and the
// positional sweep arguments, in increasing order of precedence.
package config

import (
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"sortbench/history"
	"sortbench/sweep"
	"sortbench/telemetry"
)

const (
	KeyBubbleStep     = "bubble.step"
	KeyBubbleMax      = "bubble.max"
	KeyMergeStep      = "merge.step"
	KeyMergeMax       = "merge.max"
	KeyOutDir         = "out_dir"
	KeySeed           = "seed"
	KeyGC             = "gc"
	KeySummary        = "summary"
	KeyMetricsFile    = "metrics_file"
	KeyHistoryBackend = "history.backend"
	KeyHistoryPath    = "history.path"
	KeyVerbose        = "verbose"
	KeyLogFormat      = "log_format"
)

const (
	EnvPrefix          = "SORTBENCH"
	DefaultHistoryPath = ".sortbench/history"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// argKeys maps the positional arguments, in order, to their keys.
var argKeys = []string{KeyBubbleStep, KeyBubbleMax, KeyMergeStep, KeyMergeMax}

// flagKeys maps flag names to keys.
var flagKeys = map[string]string{
	"out-dir":         KeyOutDir,
	"seed":            KeySeed,
	"gc":              KeyGC,
	"summary":         KeySummary,
	"metrics-file":    KeyMetricsFile,
	"history-backend": KeyHistoryBackend,
	"history-path":    KeyHistoryPath,
	"verbose":         KeyVerbose,
	"log-format":      KeyLogFormat,
}

// Config is the resolved configuration of one invocation.
type Config struct {
	Sweep       sweep.Config
	OutDir      string
	Seed        uint64
	GC          bool
	Summary     string
	MetricsFile string
	History     history.Config
	Verbose     bool
	LogFormat   string
}

// New returns a viper instance carrying the defaults and env binding.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyBubbleStep, sweep.DefaultBubbleStep)
	v.SetDefault(KeyBubbleMax, sweep.DefaultBubbleMax)
	v.SetDefault(KeyMergeStep, sweep.DefaultMergeStep)
	v.SetDefault(KeyMergeMax, sweep.DefaultMergeMax)
	v.SetDefault(KeyOutDir, ".")
	v.SetDefault(KeySeed, 0)
	v.SetDefault(KeyGC, true)
	v.SetDefault(KeySummary, "")
	v.SetDefault(KeyMetricsFile, "")
	v.SetDefault(KeyHistoryBackend, "")
	v.SetDefault(KeyHistoryPath, DefaultHistoryPath)
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyLogFormat, telemetry.FormatText)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// AddFlags registers the configuration flags on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.String("out-dir", ".", "Directory the data files are written to")
	fs.Uint64("seed", 0, "Seed for input generation (0 picks one from the clock)")
	fs.Bool("gc", true, "Force a garbage collection before each timed sort")
	fs.String("summary", "", "Write a Markdown summary of the run to this file")
	fs.String("metrics-file", "", "Write Prometheus metrics in textfile format to this file")
	fs.String("history-backend", "", "Archive runs in this store: "+strings.Join(history.Backends(), ", "))
	fs.String("history-path", DefaultHistoryPath, "History directory, or DSN for postgres")
	fs.BoolP("verbose", "v", false, "Enable debug logging")
	fs.String("log-format", telemetry.FormatText, "Log format: text or json")
}

// BindFlags binds every flag registered by AddFlags to its key.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return errors.Wrapf(err, "bind flag --%s", name)
		}
	}
	return nil
}

// ApplyArgs overrides the sweep bounds with the positional arguments:
// bubble step, bubble max, merge step, merge max. Missing ones keep their
// configured value.
func ApplyArgs(v *viper.Viper, args []string) error {
	if len(args) > len(argKeys) {
		return errors.Mark(errors.Newf("expected at most %d arguments, got %d", len(argKeys), len(args)), ErrInvalidConfig)
	}
	for i, arg := range args {
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return errors.Mark(errors.Newf("argument %d (%s): %q is not an integer", i+1, argKeys[i], arg), ErrInvalidConfig)
		}
		v.Set(argKeys[i], n)
	}
	return nil
}

// Load reads the optional .env and config files into v and resolves the
// configuration. An explicitly named config file must exist.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	// a missing .env is normal
	_ = godotenv.Load()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("sortbench")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "read config")
		}
	}

	cfg := Resolve(v)
	return cfg, cfg.Validate()
}

// Resolve reads the configuration out of v without touching the disk.
func Resolve(v *viper.Viper) Config {
	return Config{
		Sweep: sweep.Config{
			BubbleStep: v.GetInt(KeyBubbleStep),
			BubbleMax:  v.GetInt(KeyBubbleMax),
			MergeStep:  v.GetInt(KeyMergeStep),
			MergeMax:   v.GetInt(KeyMergeMax),
		},
		OutDir:      v.GetString(KeyOutDir),
		Seed:        v.GetUint64(KeySeed),
		GC:          v.GetBool(KeyGC),
		Summary:     v.GetString(KeySummary),
		MetricsFile: v.GetString(KeyMetricsFile),
		History: history.Config{
			Backend: strings.ToLower(v.GetString(KeyHistoryBackend)),
			Path:    v.GetString(KeyHistoryPath),
		},
		Verbose:   v.GetBool(KeyVerbose),
		LogFormat: strings.ToLower(v.GetString(KeyLogFormat)),
	}
}

// Validate checks the configuration. Returned errors match ErrInvalidConfig
// under errors.Is, as well as any more specific sentinel.
func (c Config) Validate() error {
	if err := c.Sweep.Validate(); err != nil {
		return errors.Mark(err, ErrInvalidConfig)
	}
	if c.OutDir == "" {
		return errors.Mark(errors.New("output directory must not be empty"), ErrInvalidConfig)
	}
	if !slices.Contains([]string{telemetry.FormatText, telemetry.FormatJSON}, c.LogFormat) {
		return errors.Mark(errors.Newf("unknown log format %q", c.LogFormat), ErrInvalidConfig)
	}
	if c.History.Backend != "" {
		if !history.KnownBackend(c.History.Backend) {
			return errors.Mark(errors.Wrapf(history.ErrUnknownBackend, "%q", c.History.Backend), ErrInvalidConfig)
		}
		if c.History.Path == "" {
			return errors.Mark(errors.New("history path must not be empty"), ErrInvalidConfig)
		}
	}
	return nil
}

// HistoryEnabled reports whether runs should be archived.
func (c Config) HistoryEnabled() bool {
	return c.History.Backend != ""
}
