package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

const envPrefix = "MUSICMAID_"

var dotenvKeyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// dotenvFiles are read in order; later files win over earlier ones.
var dotenvFiles = []string{".env", ".env.local"}

// loadDotEnvFiles applies MUSICMAID_* assignments from the dotenv files in
// cwd. Variables already present in environ are never overridden and other
// keys are ignored, so a project .env shared with other tools stays inert.
func loadDotEnvFiles(cwd string, environ []string, setenv func(string, string) error) error {
	if strings.TrimSpace(cwd) == "" {
		return nil
	}
	if setenv == nil {
		return fmt.Errorf("setenv is required")
	}

	protected := map[string]struct{}{}
	for _, pair := range environ {
		if key, _, found := strings.Cut(pair, "="); found {
			protected[key] = struct{}{}
		}
	}

	for _, name := range dotenvFiles {
		values, err := readDotEnvFile(filepath.Join(cwd, name))
		if err != nil {
			return err
		}
		for _, kv := range values {
			if _, exists := protected[kv[0]]; exists {
				continue
			}
			if err := setenv(kv[0], kv[1]); err != nil {
				return fmt.Errorf("set %s from %s: %w", kv[0], name, err)
			}
		}
	}
	return nil
}

// readDotEnvFile returns the MUSICMAID_* pairs of path in file order. A
// missing file yields nothing.
func readDotEnvFile(path string) ([][2]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer file.Close()

	pairs := [][2]string{}
	scanner := bufio.NewScanner(file)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		key, value, ok, err := parseDotEnvLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("parse %s:%d: %w", path, lineNo, err)
		}
		if !ok || !strings.HasPrefix(key, envPrefix) {
			continue
		}
		pairs = append(pairs, [2]string{key, value})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return pairs, nil
}

func parseDotEnvLine(raw string) (key string, value string, ok bool, err error) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false, nil
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false, fmt.Errorf("expected KEY=VALUE format")
	}
	key = strings.TrimSpace(key)
	if !dotenvKeyPattern.MatchString(key) {
		return "", "", false, fmt.Errorf("invalid key %q", key)
	}
	value = strings.TrimSpace(value)

	switch {
	case len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"':
		decoded, err := strconv.Unquote(value)
		if err != nil {
			return "", "", false, fmt.Errorf("invalid quoted value for %q", key)
		}
		return key, decoded, true, nil
	case len(value) >= 2 && value[0] == '\'' && value[len(value)-1] == '\'':
		return key, value[1 : len(value)-1], true, nil
	}
	return key, value, true, nil
}
