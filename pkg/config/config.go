package config

import (
	"os"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigtoml"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/ngld/vklaunch/pkg/launcher"
)

// DefaultFile is loaded if it exists and no other file was passed
const DefaultFile = "vklaunch.toml"

// Config describes all configuration options
type Config struct {
	Compiler string   `default:"clang" toml:"compiler" env:"COMPILER" usage:"C compiler executable"`
	Std      string   `default:"c99" toml:"std" env:"STD" usage:"C language standard passed as -std"`
	Warnings []string `default:"all" toml:"warnings" env:"WARNINGS" usage:"Warning groups passed as -W<group>"`
	Werror   bool     `default:"true" toml:"werror" env:"WERROR" usage:"Treat warnings as errors"`
	Source   string   `default:"xcb_vulkan.c" toml:"source" env:"SOURCE" usage:"Source file to compile"`
	Output   string   `default:"xcb_vulkan" toml:"output" env:"OUTPUT" usage:"Path of the produced binary"`
	Debug    bool     `default:"true" toml:"debug" env:"DEBUG" usage:"Include debug symbols (-g)"`
	Libs     []string `default:"m,xcb,vulkan" toml:"libs" env:"LIBS" usage:"Libraries to link (-l<lib>)"`
	Defines  []string `default:"VK_USE_PLATFORM_XCB_KHR" toml:"defines" env:"DEFINES" usage:"Preprocessor definitions (-D<def>)"`
	Trigger  string   `default:"run" toml:"trigger" env:"TRIGGER" usage:"First argument that runs the binary after a successful build"`
	Dir      string   `toml:"dir" env:"DIR" usage:"Working directory for the compiler and the binary"`

	PropagateExitCode bool `default:"false" toml:"propagate_exit_code" env:"PROPAGATE_EXIT_CODE" usage:"Exit with the compiler's status if the build fails"`

	Log struct {
		Level string `default:"info" toml:"level" env:"LEVEL"`
		JSON  bool   `default:"false" toml:"json" env:"JSON" usage:"Output JSONND instead of pretty console messages"`
		Trace bool   `default:"false" toml:"trace" env:"TRACE" usage:"Include stack traces in error messages and dump every log field"`
	} `toml:"log" env:"LOG"`
}

var logLevels = map[string]zerolog.Level{
	"trace":   zerolog.TraceLevel,
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
	"fatal":   zerolog.FatalLevel,
}

// Loader initializes an empty config object and returns a new Loader for this object. Command line
// flags are handled by cobra so aconfig only looks at the passed files and the environment.
func Loader(files ...string) (*Config, *aconfig.Loader) {
	cfg := Config{}
	return &cfg, aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags:        true,
		SkipFiles:        len(files) == 0,
		AllowUnknownEnvs: true,
		EnvPrefix:        "VKLAUNCH",
		Files:            files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".toml": aconfigtoml.New(),
		},
	})
}

// Load reads the configuration from the given files (or DefaultFile) and the environment. Missing files
// are skipped.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{DefaultFile}
	}

	existing := make([]string, 0, len(files))
	for _, file := range files {
		_, err := os.Stat(file)
		if err == nil {
			existing = append(existing, file)
		} else if !eris.Is(err, os.ErrNotExist) {
			return nil, eris.Wrapf(err, "failed to check %s", file)
		}
	}

	cfg, loader := Loader(existing...)
	err := loader.Load()
	if err != nil {
		return nil, eris.Wrap(err, "failed to load configuration")
	}

	return cfg, nil
}

// Validate verifies that all config fields have valid values
func (cfg *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"compiler", cfg.Compiler},
		{"source", cfg.Source},
		{"output", cfg.Output},
		{"trigger", cfg.Trigger},
	}
	for _, field := range required {
		if field.value == "" {
			return eris.Errorf(`%s must not be empty`, field.name)
		}
	}

	_, ok := logLevels[cfg.Log.Level]
	if !ok {
		return eris.Errorf(`Invalid value for log.level: %s`, cfg.Log.Level)
	}

	return nil
}

// LogLevel converts the .Log.Level field to a zerolog.Level
func (cfg *Config) LogLevel() zerolog.Level {
	return logLevels[cfg.Log.Level]
}

// Options converts the config into launcher options
func (cfg *Config) Options() launcher.Options {
	return launcher.Options{
		Compiler: cfg.Compiler,
		Std:      cfg.Std,
		Warnings: cfg.Warnings,
		Werror:   cfg.Werror,
		Source:   cfg.Source,
		Output:   cfg.Output,
		Debug:    cfg.Debug,
		Libs:     cfg.Libs,
		Defines:  cfg.Defines,
		Trigger:  cfg.Trigger,
		Dir:      cfg.Dir,
	}
}
