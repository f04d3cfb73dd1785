package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/marking-menu/internal/app"
	"github.com/atomicstack/marking-menu/internal/telemetry"
	"github.com/spf13/viper"
)

// Config captures runtime configuration for the application.
type Config struct {
	App      app.Config
	Logging  Logging
	Features Features
	Flags    map[string]string
	Args     []string
	// File is the configuration file that was read, if any.
	File string
}

type Logging struct {
	FilePath string
	Trace    bool
}

type Features struct {
	Verbose bool
}

const (
	envConfig       = "MARKING_MENU_CONFIG"
	envLayout       = "MARKING_MENU_LAYOUT"
	envThreshold    = "MARKING_MENU_THRESHOLD"
	envDoubleClick  = "MARKING_MENU_DOUBLE_CLICK"
	envHotkey       = "MARKING_MENU_HOTKEY"
	envOpen         = "MARKING_MENU_OPEN"
	envCursor       = "MARKING_MENU_CURSOR"
	envWidth        = "MARKING_MENU_WIDTH"
	envHeight       = "MARKING_MENU_HEIGHT"
	envShowFooter   = "MARKING_MENU_FOOTER"
	envVerbose      = "MARKING_MENU_VERBOSE"
	envTrace        = "MARKING_MENU_TRACE"
	envLogFile      = "MARKING_MENU_LOG_FILE"
	envOTelEndpoint = "MARKING_MENU_OTEL_ENDPOINT"
	envOTelInsecure = "MARKING_MENU_OTEL_INSECURE"
)

const (
	keyLayout       = "layout"
	keyThreshold    = "threshold"
	keyDoubleClick  = "double_click"
	keyHotkey       = "hotkey"
	keyOpen         = "open"
	keyCursor       = "cursor"
	keyWidth        = "width"
	keyHeight       = "height"
	keyFooter       = "footer"
	keyVerbose      = "verbose"
	keyTrace        = "trace"
	keyLogFile      = "log_file"
	keyOTelEndpoint = "otel.endpoint"
	keyOTelInsecure = "otel.insecure"
	keyOTelService  = "otel.service"
)

// reservedKeys are bound by the overlay itself and cannot be the hotkey.
var reservedKeys = map[string]bool{
	"q": true, "esc": true, "tab": true, "enter": true, "ctrl+c": true,
	"up": true, "down": true, "j": true, "k": true, "g": true, "G": true, " ": true,
}

// Load parses configuration from CLI arguments, environment variables and
// the configuration file.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Flags win over
// environment variables, which win over the configuration file, which wins
// over the defaults.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("marking-menu", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	configPath := fs.String("config", "", "path to a TOML configuration file")
	layoutPath := fs.String("layout", "", "path to a YAML panel layout (empty uses the built-in layout)")
	threshold := fs.Int("threshold", 0, "minimum drag distance in cells before a release activates")
	doubleClick := fs.Int("double-click", 0, "double-click interval in milliseconds")
	hotkey := fs.String("hotkey", "", "key that toggles the overlay")
	open := fs.String("open", "", "standalone panel to open at startup")
	cursor := fs.String("cursor", "", "pointer shape requested while the hotkey overlay is up")
	width := fs.Int("width", 0, "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", 0, "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", false, "enable footer with key hints and recent commands")
	verbose := fs.Bool("verbose", false, "show navigation state in the status line")
	trace := fs.Bool("trace", false, "enable verbose JSON trace logging")
	logFile := fs.String("log-file", "", "path to the log file")
	otelEndpoint := fs.String("otel-endpoint", "", "OTLP/HTTP endpoint for gesture traces (empty disables export)")
	otelInsecure := fs.Bool("otel-insecure", false, "use plain HTTP for the OTLP endpoint")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetDefault(keyLayout, "")
	v.SetDefault(keyThreshold, 3)
	v.SetDefault(keyDoubleClick, 400)
	v.SetDefault(keyHotkey, "`")
	v.SetDefault(keyOpen, "")
	v.SetDefault(keyCursor, "crosshair")
	v.SetDefault(keyWidth, 0)
	v.SetDefault(keyHeight, 0)
	v.SetDefault(keyFooter, false)
	v.SetDefault(keyVerbose, false)
	v.SetDefault(keyTrace, false)
	v.SetDefault(keyLogFile, "")
	v.SetDefault(keyOTelEndpoint, "")
	v.SetDefault(keyOTelInsecure, false)
	v.SetDefault(keyOTelService, telemetry.DefaultService)

	file, err := readConfigFile(v, *configPath, env)
	if err != nil {
		return Config{}, err
	}

	setString(v, env, envLayout, keyLayout)
	setInt(v, env, envThreshold, keyThreshold)
	setInt(v, env, envDoubleClick, keyDoubleClick)
	setString(v, env, envHotkey, keyHotkey)
	setString(v, env, envOpen, keyOpen)
	setString(v, env, envCursor, keyCursor)
	setInt(v, env, envWidth, keyWidth)
	setInt(v, env, envHeight, keyHeight)
	setBool(v, env, envShowFooter, keyFooter)
	setBool(v, env, envVerbose, keyVerbose)
	setBool(v, env, envTrace, keyTrace)
	setString(v, env, envLogFile, keyLogFile)
	setString(v, env, envOTelEndpoint, keyOTelEndpoint)
	setBool(v, env, envOTelInsecure, keyOTelInsecure)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "layout":
			v.Set(keyLayout, *layoutPath)
		case "threshold":
			v.Set(keyThreshold, *threshold)
		case "double-click":
			v.Set(keyDoubleClick, *doubleClick)
		case "hotkey":
			v.Set(keyHotkey, *hotkey)
		case "open":
			v.Set(keyOpen, *open)
		case "cursor":
			v.Set(keyCursor, *cursor)
		case "width":
			v.Set(keyWidth, *width)
		case "height":
			v.Set(keyHeight, *height)
		case "footer":
			v.Set(keyFooter, *footer)
		case "verbose":
			v.Set(keyVerbose, *verbose)
		case "trace":
			v.Set(keyTrace, *trace)
		case "log-file":
			v.Set(keyLogFile, *logFile)
		case "otel-endpoint":
			v.Set(keyOTelEndpoint, *otelEndpoint)
		case "otel-insecure":
			v.Set(keyOTelInsecure, *otelInsecure)
		}
	})

	if w := v.GetInt(keyWidth); w < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", w)
	}
	if h := v.GetInt(keyHeight); h < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", h)
	}
	if t := v.GetInt(keyThreshold); t < 0 {
		return Config{}, fmt.Errorf("threshold must be >= 0 (got %d)", t)
	}
	if ms := v.GetInt(keyDoubleClick); ms <= 0 {
		return Config{}, fmt.Errorf("double-click must be > 0 (got %d)", ms)
	}

	cfg := Config{
		App: app.Config{
			LayoutPath:  v.GetString(keyLayout),
			Threshold:   v.GetInt(keyThreshold),
			DoubleClick: time.Duration(v.GetInt(keyDoubleClick)) * time.Millisecond,
			Hotkey:      v.GetString(keyHotkey),
			Open:        v.GetString(keyOpen),
			CursorShape: v.GetString(keyCursor),
			Width:       v.GetInt(keyWidth),
			Height:      v.GetInt(keyHeight),
			ShowFooter:  v.GetBool(keyFooter),
			Verbose:     v.GetBool(keyVerbose),
			Telemetry: telemetry.Config{
				Endpoint: v.GetString(keyOTelEndpoint),
				Insecure: v.GetBool(keyOTelInsecure),
				Service:  v.GetString(keyOTelService),
			},
		},
		Logging: Logging{
			FilePath: v.GetString(keyLogFile),
			Trace:    v.GetBool(keyTrace),
		},
		Features: Features{
			Verbose: v.GetBool(keyVerbose),
		},
		Flags: map[string]string{
			"config":       file,
			"layout":       v.GetString(keyLayout),
			"threshold":    strconv.Itoa(v.GetInt(keyThreshold)),
			"doubleClick":  strconv.Itoa(v.GetInt(keyDoubleClick)),
			"hotkey":       v.GetString(keyHotkey),
			"open":         v.GetString(keyOpen),
			"cursor":       v.GetString(keyCursor),
			"width":        strconv.Itoa(v.GetInt(keyWidth)),
			"height":       strconv.Itoa(v.GetInt(keyHeight)),
			"footer":       strconv.FormatBool(v.GetBool(keyFooter)),
			"trace":        strconv.FormatBool(v.GetBool(keyTrace)),
			"verbose":      strconv.FormatBool(v.GetBool(keyVerbose)),
			"logFile":      v.GetString(keyLogFile),
			"otelEndpoint": v.GetString(keyOTelEndpoint),
		},
		Args: append([]string(nil), args...),
		File: file,
	}

	return cfg, nil
}

// readConfigFile loads the TOML file named by the -config flag or the
// MARKING_MENU_CONFIG variable, falling back to
// ~/.config/marking-menu/config.toml. Only a missing default file is
// tolerated.
func readConfigFile(v *viper.Viper, flagPath string, env map[string]string) (string, error) {
	v.SetConfigType("toml")
	explicit := flagPath
	if explicit == "" {
		explicit = env[envConfig]
	}
	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("read config %s: %w", explicit, err)
		}
		return explicit, nil
	}
	home := env["HOME"]
	if home == "" {
		return "", nil
	}
	v.AddConfigPath(filepath.Join(home, ".config", "marking-menu"))
	v.SetConfigName("config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("read config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func setString(v *viper.Viper, env map[string]string, name, key string) {
	if value, ok := env[name]; ok {
		v.Set(key, value)
	}
}

func setInt(v *viper.Viper, env map[string]string, name, key string) {
	value, ok := env[name]
	if !ok || strings.TrimSpace(value) == "" {
		return
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return
	}
	v.Set(key, parsed)
}

func setBool(v *viper.Viper, env map[string]string, name, key string) {
	value, ok := env[name]
	if !ok || strings.TrimSpace(value) == "" {
		return
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return
	}
	v.Set(key, parsed)
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate checks settings that only make sense together.
func Validate(cfg Config) error {
	hotkey := cfg.App.Hotkey
	if strings.TrimSpace(hotkey) == "" {
		return fmt.Errorf("hotkey must not be empty")
	}
	if reservedKeys[hotkey] {
		return fmt.Errorf("hotkey %q is already bound by the overlay", hotkey)
	}
	return nil
}
