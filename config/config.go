package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const defaultPath = "."

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port     int `json:"port" yaml:"port"`
		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// Planner configuration for the route planning engine
	Planner *PlannerConfig `json:"planner" yaml:"planner"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// PlannerConfig defines the tunable constants of the route planning engine.
// All divisors are validated once at load; services never re-check per call.
type PlannerConfig struct {
	// Average urban driving speed in km/h used for travel time estimation
	UrbanSpeedKmh float64 `json:"urbanSpeedKmh" yaml:"urbanSpeedKmh"`

	// Fixed service time spent at each stop, in minutes
	ServiceMinutesPerStop float64 `json:"serviceMinutesPerStop" yaml:"serviceMinutesPerStop"`

	// Average fuel consumption in km per liter
	FuelConsumptionKmPerLiter float64 `json:"fuelConsumptionKmPerLiter" yaml:"fuelConsumptionKmPerLiter"`

	// Fuel price per liter in local currency
	FuelPricePerLiter float64 `json:"fuelPricePerLiter" yaml:"fuelPricePerLiter"`

	// Buffer added to each predicted arrival to produce the arrive-by time, in minutes
	EtaBufferMinutes float64 `json:"etaBufferMinutes" yaml:"etaBufferMinutes"`

	// Cumulative distance beyond which a "consider splitting" alert is raised
	LongRouteKm float64 `json:"longRouteKm" yaml:"longRouteKm"`

	// Minimum straight-line/actual distance ratio before a "regroup stops" alert
	MinEfficiency float64 `json:"minEfficiency" yaml:"minEfficiency"`

	// Traffic factor at or above which re-optimization by time-window urgency triggers
	HeavyTrafficThreshold float64 `json:"heavyTrafficThreshold" yaml:"heavyTrafficThreshold"`

	// Accumulated delay in minutes beyond plan that triggers window prioritization
	DelayMarginMinutes float64 `json:"delayMarginMinutes" yaml:"delayMarginMinutes"`
}

// DefaultPlannerConfig returns the planner constants used when the section is
// absent from the config file.
func DefaultPlannerConfig() *PlannerConfig {
	return &PlannerConfig{
		UrbanSpeedKmh:             30,
		ServiceMinutesPerStop:     5,
		FuelConsumptionKmPerLiter: 10,
		FuelPricePerLiter:         5.85,
		EtaBufferMinutes:          10,
		LongRouteKm:               100,
		MinEfficiency:             0.3,
		HeavyTrafficThreshold:     1.5,
		DelayMarginMinutes:        15,
	}
}

// Validate rejects planner constants that would divide by zero or disable a
// threshold. Runs once at load so the services can trust their config.
func (p *PlannerConfig) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"urbanSpeedKmh", p.UrbanSpeedKmh},
		{"serviceMinutesPerStop", p.ServiceMinutesPerStop},
		{"fuelConsumptionKmPerLiter", p.FuelConsumptionKmPerLiter},
		{"fuelPricePerLiter", p.FuelPricePerLiter},
		{"etaBufferMinutes", p.EtaBufferMinutes},
		{"longRouteKm", p.LongRouteKm},
		{"minEfficiency", p.MinEfficiency},
		{"heavyTrafficThreshold", p.HeavyTrafficThreshold},
		{"delayMarginMinutes", p.DelayMarginMinutes},
	}
	for _, check := range checks {
		if check.value <= 0 {
			return errors.Errorf("planner.%s must be positive, got %v", check.name, check.value)
		}
	}

	return nil
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: PLANNER_URBANSPEEDKMH -> planner.urbanSpeedKmh
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	if cfg.Planner == nil {
		cfg.Planner = DefaultPlannerConfig()
	}

	if err := cfg.Planner.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
