package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// lookup parses the variable named key, keeping fallback when it is unset,
// blank or unparsable.
func lookup[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	v, err := parse(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return v
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	return lookup(key, fallback, strconv.Atoi)
}

func getEnvAsBool(key string, fallback bool) bool {
	return lookup(key, fallback, strconv.ParseBool)
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	return lookup(key, fallback, time.ParseDuration)
}

func getEnvAsStringSlice(key string, fallback []string) []string {
	return lookup(key, fallback, func(raw string) ([]string, error) {
		var out []string
		for _, part := range strings.Split(raw, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		if len(out) == 0 {
			return fallback, nil
		}
		return out, nil
	})
}
