package rline

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/rohanthewiz/rline/consts"
	"github.com/rohanthewiz/serr"
)

//go:embed config.example.toml
var exampleConf []byte

// ServerOptions configures a Server. Zero fields take their defaults.
type ServerOptions struct {
	Address         string        `toml:"address"`
	Verbose         bool          `toml:"verbose"`
	LogLevel        string        `toml:"log_level"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	HandlerTimeout  time.Duration `toml:"handler_timeout"`
	MaxLineLength   int           `toml:"max_line_length"`
	StaticDir       string        `toml:"static_dir"`
	StaticPrefix    string        `toml:"static_prefix"`
	DiagnosticsPath string        `toml:"diagnostics_path"`

	// Logger overrides the logger built from LogLevel.
	Logger *log.Logger `toml:"-"`
}

type configFile struct {
	Server ServerOptions `toml:"server"`
}

// DefaultServerOptions returns the options in the embedded example config.
func DefaultServerOptions() ServerOptions {
	var cfg configFile
	if err := toml.Unmarshal(exampleConf, &cfg); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return cfg.Server
}

// LoadConfig reads server options from a TOML file.
// Keys missing from the file keep their defaults; unknown keys are an error.
func LoadConfig(path string) (ServerOptions, error) {
	cfg := configFile{Server: DefaultServerOptions()}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return ServerOptions{}, serr.Wrap(err, "failed to parse config", "path", path)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return ServerOptions{}, serr.New("unknown config keys", "path", path, "keys", strings.Join(keys, ","))
	}

	return cfg.Server, nil
}

// withDefaults fills zero fields from the defaults.
func (opts ServerOptions) withDefaults() ServerOptions {
	def := DefaultServerOptions()

	if opts.Address == "" {
		opts.Address = def.Address
	}
	if opts.LogLevel == "" {
		opts.LogLevel = def.LogLevel
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = def.ReadTimeout
	}
	if opts.HandlerTimeout <= 0 {
		opts.HandlerTimeout = def.HandlerTimeout
	}
	if opts.MaxLineLength <= 0 {
		opts.MaxLineLength = consts.DefaultMaxLineLength
	}
	if opts.StaticPrefix == "" {
		opts.StaticPrefix = def.StaticPrefix
	}
	return opts
}
