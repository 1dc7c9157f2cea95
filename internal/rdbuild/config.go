package rdbuild

import (
	"bufio"
	"os"
	"strings"
)

// Config struct
type Config struct {
	Values map[string]string
}

// LoadConfig reads an optional rdbuild.conf from the project root and applies
// defaults. A missing file is not an error; the orchestrator is expected to
// run with no configuration at all.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{Values: make(map[string]string)}

	// Attempt to read the file
	file, err := os.Open(path)
	if err == nil {
		defer file.Close()
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}
			key := strings.TrimSpace(parts[0])
			val := strings.TrimSpace(parts[1])
			val = strings.Trim(val, `"'`)
			cfg.Values[key] = val
		}
		if err := scanner.Err(); err != nil {
			return cfg, err
		}
	}

	// Merge RDBUILD_* and R2_* env overrides
	mergeEnvOverrides(cfg)

	return cfg, nil
}

// Merge RDBUILD_* and R2_* env overrides
func mergeEnvOverrides(cfg *Config) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "RDBUILD_") || strings.HasPrefix(env, "R2_") {
			parts := strings.SplitN(env, "=", 2)
			if len(parts) == 2 {
				cfg.Values[parts[0]] = parts[1]
			}
		}
	}
}

// InitConfig populates the package globals from the merged configuration.
func InitConfig(cfg *Config) {
	projectRoot = cfg.Values["RDBUILD_ROOT"]
	if projectRoot == "" {
		if wd, err := os.Getwd(); err == nil {
			projectRoot = wd
		} else {
			projectRoot = "."
		}
	}

	npmBin = cfg.Values["RDBUILD_NPM"]
	if npmBin == "" {
		npmBin = "npm"
	}

	Debug = cfg.Values["RDBUILD_DEBUG"] == "1"

	ArchiveWant = cfg.Values["RDBUILD_ARCHIVE"] == "1"

	CompressWant = cfg.Values["RDBUILD_COMPRESS"]
	if CompressWant == "" {
		CompressWant = "gzip"
	}
}

// hasR2 reports whether all four R2 credential values are configured.
func (c *Config) hasR2() bool {
	for _, key := range []string{"R2_ACCOUNT_ID", "R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY", "R2_BUCKET_NAME"} {
		if c.Values[key] == "" {
			return false
		}
	}
	return true
}
