package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"github.com/titanous/json5"
)

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// reads a configuration file, `name` should come with a file extension,
// it will automatically be lopped off to produce the other extensions.
// this function will merge the following files, where higher number is more prioritized.
// 1. <name>.<ext>
// 2. <name>.local.<ext>
func ReadConfig[T any](name string) (T, error) {
	var out T
	allNotFound := true

	dirname := filepath.Dir(name)
	basename := filepath.Base(name)
	prefixname, ext := splitExt(basename)

	defaultFile, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(defaultFile) > 0 {
		err = json5.Unmarshal(defaultFile, &out)
		if err != nil {
			return out, fmt.Errorf("parse %s: %w", name, err)
		}
		allNotFound = false
	}

	localFilepath := filepath.Join(
		dirname,
		fmt.Sprintf("%s.local.%s", prefixname, ext),
	)
	localFile, err := os.ReadFile(localFilepath)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(localFile) > 0 {
		var override T
		err = json5.Unmarshal(localFile, &override)
		if err != nil {
			return out, fmt.Errorf("parse %s: %w", localFilepath, err)
		}
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Info("merging config with local overrides", "local", localFilepath)
		allNotFound = false
	}

	if allNotFound {
		return out, os.ErrNotExist
	}

	return out, nil
}

// LoadDotenv loads the given .env files (or ./.env) into the process environment
// without overriding variables that are already set. Missing files are not an error.
func LoadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	existing := []string{}
	for _, f := range files {
		_, err := os.Stat(f)
		if os.IsNotExist(err) {
			continue
		}
		existing = append(existing, f)
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// OverrideString replaces *target with the value of env when it is set and non-empty.
func OverrideString(target *string, env string) {
	value, ok := os.LookupEnv(env)
	if ok && value != "" {
		*target = value
	}
}

// OverrideInt is OverrideString for integers, unparseable values are logged and ignored.
func OverrideInt(target *int, env string) {
	value, ok := os.LookupEnv(env)
	if !ok || value == "" {
		return
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("ignoring invalid integer in environment", "env", env, "value", value)
		return
	}
	*target = parsed
}
