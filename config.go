package augstream

/*------------------------------------------------------------------------------
* config.go : YAML run configuration (§6, ADDED ambient stack)
*
* Grounded on ch10gate's loadConfig (a flat struct read with gopkg.in/yaml.v3,
* filled in with defaults for zero fields) rather than gnssgo's C-style
* option files (gnssgo/src/options.go parses .conf key=value text, which the
* rest of the pack does not otherwise use anywhere the CLI itself reads).
 */

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the top-level run configuration for cmd/corrstream (spec.md §6
// flags, plus the ADDED sink/metrics/trace sections).
type Config struct {
	Vendor      string      `yaml:"vendor"` // allystar|novatel|sbf|ublox|pocketsdr
	Dialect     string      `yaml:"dialect"` // clas|madoca-ppp|beidou
	PinnedPRN   int         `yaml:"pinnedPRN"`
	L1S         bool        `yaml:"l1s"`
	RTCM        bool        `yaml:"rtcm"`
	Quiet       bool        `yaml:"quiet"`
	Verbosity   int         `yaml:"verbosity"`
	MetricsAddr string      `yaml:"metricsAddr"`
	Sink        SinkConfig  `yaml:"sink"`
	Trace       TraceConfig `yaml:"trace"`
}

// LoadConfig reads and validates a YAML config file, following ch10gate's
// loadConfig shape: parse then validate, wrapping I/O and parse failures with
// enough context to locate the offending file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	cfg := &Config{Verbosity: 1}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Vendor {
	case "allystar", "novatel", "sbf", "ublox", "pocketsdr", "":
	default:
		return errors.Errorf("unknown vendor %q", c.Vendor)
	}
	switch c.Dialect {
	case "clas", "madoca-ppp", "beidou", "":
	default:
		return errors.Errorf("unknown dialect %q", c.Dialect)
	}
	return nil
}

// DialectOf maps the config's string dialect to the CSSR Dialect enum,
// defaulting to CLAS for an empty or unrecognised value, as cmd/corrstream
// does for its -dialect flag.
func (c *Config) DialectOf() Dialect {
	switch c.Dialect {
	case "madoca-ppp":
		return DialectMADOCAPPP
	case "beidou":
		return DialectBeiDou
	default:
		return DialectCLAS
	}
}
