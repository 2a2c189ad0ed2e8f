// Package config provides configuration loading.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/storewire/storewire/internal/colors"
)

// Validator validates and normalizes a configuration value.
// Returns the normalized value and an error if validation fails.
type Validator func(key, value, defaultValue string) (normalized string, err error)

// validatorRegistry manages the set of registered validators.
type validatorRegistry struct {
	mu         sync.RWMutex
	validators map[string]Validator
}

// registry is the global validator registry.
var registry = &validatorRegistry{
	validators: make(map[string]Validator),
}

// RegisterValidator registers a validator for a configuration key.
// Panics if a validator is already registered for the key.
func RegisterValidator(key string, validator Validator) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, exists := registry.validators[key]; exists {
		panic(fmt.Sprintf("validator already registered for key: %s", key))
	}
	registry.validators[key] = validator
}

func getValidator(key string) Validator {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.validators[key]
}

// File permission constants
const (
	// FileModeDir is the permission for directories (rwxr-xr-x).
	FileModeDir os.FileMode = 0755
	// FileModeFile is the permission for data files (rw-r--r--).
	FileModeFile os.FileMode = 0644

	// FileExtTOML is the file extension for TOML configuration files.
	FileExtTOML = ".toml"
)

var (
	config   map[string]string
	defaults map[string]string
	mu       sync.RWMutex
)

func init() {
	initValidators()
}

// Load initializes configuration: defaults, then the TOML config file,
// then STOREWIRE_* environment overrides, then validation.
func Load() {
	mu.Lock()
	defer mu.Unlock()

	config = make(map[string]string)
	defaults = make(map[string]string)

	setDefaults()
	loadFromFile()
	loadFromEnv()
	validate()
}

// setDefaults populates config with default values.
func setDefaults() {
	home, _ := os.UserHomeDir()
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		xdgConfigHome = filepath.Join(home, ".config")
	}
	xdgStateHome := os.Getenv("XDG_STATE_HOME")
	if xdgStateHome == "" {
		xdgStateHome = filepath.Join(home, ".local", "state")
	}

	configDir := filepath.Join(xdgConfigHome, "storewire")
	stateDir := filepath.Join(xdgStateHome, "storewire")

	setDefault("config_dir", configDir)
	setDefault("state_dir", stateDir)
	setDefault("hooks_dir", filepath.Join(configDir, "hooks"))

	setDefault("server_url", "ws://localhost:4000/ws")
	setDefault("role", "customer")
	setDefault("admin_id", "")

	setDefault("storage_backend", "file")
	setDefault("notification_cap", "50")
	setDefault("message_cap", "200")
	setDefault("order_cap", "100")
	setDefault("auto_cleanup_days", "30")

	setDefault("reconnect_max_attempts", "8")
	setDefault("reconnect_initial_delay_ms", "1000")
	setDefault("reconnect_max_delay_ms", "5000")
	setDefault("heartbeat_timeout_seconds", "45")

	setDefault("hooks_enabled", "true")
	setDefault("hooks_timeout_seconds", "30")

	setDefault("logging_enabled", "false")
	setDefault("logging_level", "info")
	setDefault("logging_max_files", "10")

	setDefault("debug", "false")
}

func setDefault(key, value string) {
	config[key] = value
	defaults[key] = value
}

// loadFromFile reads configuration from the TOML config file.
func loadFromFile() {
	configPath := os.Getenv("STOREWIRE_CONFIG_PATH")
	if configPath == "" {
		if configDir, ok := config["config_dir"]; ok {
			configPath = filepath.Join(configDir, "config"+FileExtTOML)
			if _, err := os.Stat(configPath); err != nil {
				configPath = ""
			}
		}
	}
	if configPath == "" {
		return
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		colors.Debug(fmt.Sprintf("unable to read config file %s: %v", configPath, err))
		return
	}

	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		colors.Warning(fmt.Sprintf("unable to parse config file %s: %v", configPath, err))
		return
	}
	for k, v := range raw {
		key := strings.ToLower(k)
		converted, ok := coerceConfigValue(v)
		if !ok {
			colors.Warning(fmt.Sprintf("unsupported config value type for %s: %T", key, v))
			continue
		}
		config[key] = converted
	}
}

// coerceConfigValue converts a configuration value to its string
// representation. Supported types are string, int, int64, float64, bool.
func coerceConfigValue(value interface{}) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(typed), true
	default:
		return "", false
	}
}

// loadFromEnv applies environment variable overrides.
func loadFromEnv() {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, "STOREWIRE_") {
			continue
		}
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(parts[0], "STOREWIRE_"))
		if key == "config_path" {
			continue
		}
		config[key] = parts[1]
	}
}

// validate checks and normalizes configuration values using registered validators.
func validate() {
	for key, value := range config {
		validator := getValidator(key)
		if validator == nil {
			continue
		}
		defaultValue := defaults[key]
		normalized, err := validator(key, value, defaultValue)
		if err != nil {
			colors.Warning(fmt.Sprintf("validation error for %s: %v, using default: %s", key, err, defaultValue))
			config[key] = defaultValue
		} else {
			config[key] = normalized
		}
	}
}

func initValidators() {
	positiveInt := PositiveIntValidator()
	RegisterValidator("notification_cap", positiveInt)
	RegisterValidator("message_cap", positiveInt)
	RegisterValidator("order_cap", positiveInt)
	RegisterValidator("auto_cleanup_days", positiveInt)
	RegisterValidator("reconnect_max_attempts", positiveInt)
	RegisterValidator("reconnect_initial_delay_ms", positiveInt)
	RegisterValidator("reconnect_max_delay_ms", positiveInt)
	RegisterValidator("heartbeat_timeout_seconds", positiveInt)
	RegisterValidator("hooks_timeout_seconds", positiveInt)
	RegisterValidator("logging_max_files", positiveInt)

	RegisterValidator("role", EnumValidator(map[string]bool{"customer": true, "admin": true}))
	RegisterValidator("storage_backend", EnumValidator(map[string]bool{"file": true, "sqlite": true}))
	RegisterValidator("logging_level", EnumValidator(map[string]bool{"debug": true, "info": true, "warn": true, "error": true}))

	boolValidator := BoolValidator()
	RegisterValidator("hooks_enabled", boolValidator)
	RegisterValidator("logging_enabled", boolValidator)
	RegisterValidator("debug", boolValidator)

	RegisterValidator("server_url", WebsocketURLValidator())
}

// Get returns the configuration value for key, or defaultValue when unset.
func Get(key, defaultValue string) string {
	mu.RLock()
	defer mu.RUnlock()
	if config == nil {
		return defaultValue
	}
	if val, ok := config[key]; ok && val != "" {
		return val
	}
	return defaultValue
}

// GetInt returns the configuration value for key as an int.
func GetInt(key string, defaultValue int) int {
	val := Get(key, "")
	if val == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return n
}

// GetBool returns the configuration value for key as a bool.
func GetBool(key string, defaultValue bool) bool {
	val := Get(key, "")
	switch normalizeBool(val) {
	case "true":
		return true
	case "false":
		return false
	default:
		return defaultValue
	}
}

// Set overrides a configuration value for the current process.
func Set(key, value string) {
	mu.Lock()
	defer mu.Unlock()
	if config == nil {
		config = make(map[string]string)
	}
	config[key] = value
}

// normalizeBool converts various boolean representations to "true"/"false".
func normalizeBool(val string) string {
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return "true"
	case "0", "false", "no", "off":
		return "false"
	default:
		return val
	}
}

// allowedValues renders the allowed enum values for warning messages.
func allowedValues(allowed map[string]bool) string {
	values := make([]string, 0, len(allowed))
	for v := range allowed {
		values = append(values, v)
	}
	sort.Strings(values)
	return strings.Join(values, ", ")
}

// WebsocketURLValidator ensures a value is a ws:// or wss:// URL.
func WebsocketURLValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be a ws:// or wss:// URL, using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return value, nil
	}
}
