// Package config assembles the service configuration from defaults,
// an optional JSON file, the environment (including a .env file) and
// command-line flags, in increasing order of priority.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	RunAddr         string        `env:"SERVER_ADDRESS" json:"server_address" validate:"hostname_port"`
	LogLevel        string        `env:"LOG_LEVEL" json:"log_level" validate:"loglevel"`
	SeedFile        string        `env:"SEED_FILE" json:"seed_file" validate:"omitempty,seedfile"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" json:"shutdown_timeout" validate:"gt=0"`
	ConfigFile      string        `env:"CONFIG" json:"-"`
}

var defaultConfig = Config{
	RunAddr:         ":8080",
	LogLevel:        "info",
	SeedFile:        "",
	ShutdownTimeout: 10 * time.Second,
}

func validateFilePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}

	return allowedLogLevels[value]
}

func (values *Config) validate() error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("seedfile", validateFilePath)
	if err != nil {
		return err
	}

	return validate.Struct(values)
}

// applyDefaults fills the zero fields of values from defaults.
func applyDefaults(values *Config, defaults Config) {
	if values.RunAddr == "" {
		values.RunAddr = defaults.RunAddr
	}
	if values.LogLevel == "" {
		values.LogLevel = defaults.LogLevel
	}
	if values.SeedFile == "" {
		values.SeedFile = defaults.SeedFile
	}
	if values.ShutdownTimeout == 0 {
		values.ShutdownTimeout = defaults.ShutdownTimeout
	}
}

type fileConfig struct {
	RunAddr         string `json:"server_address"`
	LogLevel        string `json:"log_level"`
	SeedFile        string `json:"seed_file"`
	ShutdownTimeout string `json:"shutdown_timeout"`
}

func loadJSONFile(fileName string) (Config, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return Config{}, err
	}

	var raw fileConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("error parsing config file %s: %w", fileName, err)
	}

	result := Config{
		RunAddr:  raw.RunAddr,
		LogLevel: raw.LogLevel,
		SeedFile: raw.SeedFile,
	}
	if raw.ShutdownTimeout != "" {
		result.ShutdownTimeout, err = time.ParseDuration(raw.ShutdownTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("error parsing shutdown_timeout in %s: %w", fileName, err)
		}
	}

	return result, nil
}

type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

type flagValues struct {
	configFile string
	runAddr    string
	logLevel   string
	seedFile   string
}

func parseFlags() (flagValues, error) {
	var values flagValues

	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flags.StringVar(&values.configFile, "c", "", "JSON configuration file")
	flags.StringVar(&values.runAddr, "a", "", "address and port to run server")
	flags.StringVar(&values.logLevel, "l", "", "logger level")
	flags.StringVar(&values.seedFile, "s", "", "JSON file with the users present at start-up")

	return values, flags.Parse(os.Args[1:])
}

// New builds the configuration. Priority: flags > environment > JSON file > defaults.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{
		disableFlagsParsing: false,
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	// A missing .env file is the common case.
	_ = godotenv.Load()

	var flagsValues flagValues
	if !options.disableFlagsParsing {
		var err error
		flagsValues, err = parseFlags()
		if err != nil {
			return nil, err
		}
	}

	var valuesFromEnv Config
	if err := env.Parse(&valuesFromEnv); err != nil {
		return nil, err
	}

	configFile := valuesFromEnv.ConfigFile
	if flagsValues.configFile != "" {
		configFile = flagsValues.configFile
	}

	values := Config{}
	if configFile != "" {
		valuesFromFile, err := loadJSONFile(configFile)
		if err != nil {
			return nil, err
		}
		values = valuesFromFile
	}
	values.ConfigFile = configFile

	if valuesFromEnv.RunAddr != "" {
		values.RunAddr = valuesFromEnv.RunAddr
	}
	if valuesFromEnv.LogLevel != "" {
		values.LogLevel = valuesFromEnv.LogLevel
	}
	if valuesFromEnv.SeedFile != "" {
		values.SeedFile = valuesFromEnv.SeedFile
	}
	if valuesFromEnv.ShutdownTimeout != 0 {
		values.ShutdownTimeout = valuesFromEnv.ShutdownTimeout
	}

	if flagsValues.runAddr != "" {
		values.RunAddr = flagsValues.runAddr
	}
	if flagsValues.logLevel != "" {
		values.LogLevel = flagsValues.logLevel
	}
	if flagsValues.seedFile != "" {
		values.SeedFile = flagsValues.seedFile
	}

	applyDefaults(&values, defaultConfig)

	if err := values.validate(); err != nil {
		return nil, err
	}

	return &values, nil
}
