package shared

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/subosito/gotenv"
)

var dotenvLoadOnce sync.Once

// LoadDotEnvFile sets every variable from path that is not already present
// in the environment and returns how many variables it set. A malformed line
// fails the whole file and nothing is set.
func LoadDotEnvFile(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open env file: %w", err)
	}
	defer file.Close()

	env, err := gotenv.StrictParse(file)
	if err != nil {
		return 0, fmt.Errorf("failed to parse env file %s: %w", path, err)
	}

	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	loaded := 0
	for _, key := range keys {
		if _, alreadySet := os.LookupEnv(key); alreadySet {
			continue
		}
		if err := os.Setenv(key, env[key]); err != nil {
			return loaded, fmt.Errorf("failed to set %s: %w", key, err)
		}
		loaded++
	}

	return loaded, nil
}

// loadDotEnvIfPresent loads the nearest .env walking up from the working
// directory. Only the first file found is read.
func loadDotEnvIfPresent() {
	dotenvLoadOnce.Do(func() {
		current, err := os.Getwd()
		if err != nil {
			return
		}
		for {
			candidate := filepath.Join(current, ".env")
			if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
				_, _ = LoadDotEnvFile(candidate)
				return
			}

			parent := filepath.Dir(current)
			if parent == current {
				return
			}
			current = parent
		}
	})
}

func firstNonEmptyEnv(keys ...string) string {
	for _, key := range keys {
		value := strings.TrimSpace(os.Getenv(key))
		if value != "" {
			return value
		}
	}
	return ""
}
