// Command staticlint runs the project's static analysis: a fixed set of
// analyzers from the Go toolchain, ineffassign, nilerr, the project's own
// ctxkey analyzer and the staticcheck analyzers enabled in config.json.
//
// config.json is read from the STATICLINT_CONFIG path if set, otherwise from
// the directory of the executable. Staticcheck entries are analyzer names
// ("SA4006") or prefixes ending in "*" ("SA1*").
package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"honnef.co/go/tools/staticcheck"

	"github.com/gordonklaus/ineffassign/pkg/ineffassign"
	"github.com/gostaticanalysis/nilerr"

	"github.com/patric-chuzhbe/userauth/cmd/staticlint/ctxkey"
)

const configFileName = `config.json`

// ConfigData describes the structure of the configuration file.
type ConfigData struct {
	Staticcheck []string
}

func configPath() (string, error) {
	if path := os.Getenv("STATICLINT_CONFIG"); path != "" {
		return path, nil
	}
	appfile, err := os.Executable()
	if err != nil {
		return "", err
	}

	return filepath.Join(filepath.Dir(appfile), configFileName), nil
}

func loadConfig() (ConfigData, error) {
	var cfg ConfigData

	path, err := configPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	return cfg, json.Unmarshal(data, &cfg)
}

func enabled(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
			if strings.HasPrefix(name, prefix) {
				return true
			}
			continue
		}
		if name == pattern {
			return true
		}
	}

	return false
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		panic(err)
	}

	checks := []*analysis.Analyzer{
		copylock.Analyzer,
		httpresponse.Analyzer, // response bodies in handler tests
		loopclosure.Analyzer,
		lostcancel.Analyzer,
		printf.Analyzer,
		structtag.Analyzer,
		unmarshal.Analyzer,
		unreachable.Analyzer,

		ineffassign.Analyzer,
		nilerr.Analyzer,

		ctxkey.Analyzer,
	}

	for _, v := range staticcheck.Analyzers {
		if enabled(v.Analyzer.Name, cfg.Staticcheck) {
			checks = append(checks, v.Analyzer)
		}
	}

	multichecker.Main(checks...)
}
