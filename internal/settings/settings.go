package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/tilemux/tilemux/internal/log"
)

const (
	// DefaultBindAddress is where the admin API listens when the settings
	// file says nothing else.
	DefaultBindAddress = "127.0.0.1:8080"

	// DefaultProxyConfigPath is the administered document's default location.
	DefaultProxyConfigPath = "/etc/tilemux/tilemux.yaml"
)

// Settings is the daemon's own configuration, distinct from the proxy
// document it administers.
type Settings struct {
	API   *APISettings   `toml:"api"`
	Proxy *ProxySettings `toml:"proxy"`
	Log   *LogSettings   `toml:"log"`
}

// APISettings configures the admin HTTP server.
type APISettings struct {
	BindAddress string `toml:"bind_address" validate:"omitempty,hostname_port"`
	AllowPublic bool   `toml:"allow_public"`
}

// ProxySettings points at the administered configuration document.
type ProxySettings struct {
	ConfigPath string `toml:"config_path"`
}

// LogSettings configures logging.
type LogSettings struct {
	Verbose bool `toml:"verbose"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Load reads the settings file at path. A missing file is not an error:
// defaults apply and command-line flags may still override them.
func Load(path string) (*Settings, error) {
	settingsFile := filepath.Clean(path)
	if !filepath.IsAbs(settingsFile) {
		abs, err := filepath.Abs(settingsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %v", err)
		}
		settingsFile = abs
	}

	if _, err := os.Stat(settingsFile); errors.Is(err, os.ErrNotExist) {
		log.Debugf("Settings file %s not found, using defaults", settingsFile)
		return &Settings{}, nil
	}

	content, err := os.ReadFile(settingsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %v", err)
	}

	var s Settings
	if err := toml.Unmarshal(content, &s); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, fmt.Errorf("failed to parse settings file (line %d, column %d):\n%s", row, col, decodeErr.String())
		}
		return nil, fmt.Errorf("failed to parse settings file: %v", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	log.Debugf("Settings file path: %s", settingsFile)
	return &s, nil
}

// Validate checks field formats.
func (s *Settings) Validate() error {
	if s.API == nil {
		return nil
	}

	err := validate.Struct(s.API)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		e := fieldErrs[0]
		return fmt.Errorf("invalid settings: api.%s %s", e.Field(), validationHint(e))
	}
	return fmt.Errorf("invalid settings: %v", err)
}

func validationHint(e validator.FieldError) string {
	switch e.Tag() {
	case "hostname_port":
		return "must be in format 'host:port'"
	default:
		return fmt.Sprintf("failed validation: %s", e.Tag())
	}
}

// BindAddress returns the configured listen address or the default.
func (s *Settings) BindAddress() string {
	if s.API != nil && s.API.BindAddress != "" {
		return s.API.BindAddress
	}
	return DefaultBindAddress
}

// PrivateOnly reports whether only private-subnet clients may use the API.
// Public access has to be opted into.
func (s *Settings) PrivateOnly() bool {
	return s.API == nil || !s.API.AllowPublic
}

// ProxyConfigPath returns the path of the administered document.
func (s *Settings) ProxyConfigPath() string {
	if s.Proxy != nil && s.Proxy.ConfigPath != "" {
		return s.Proxy.ConfigPath
	}
	return DefaultProxyConfigPath
}

// Verbose reports whether the settings file enables debug logging.
func (s *Settings) Verbose() bool {
	return s.Log != nil && s.Log.Verbose
}
