// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads storage credentials from a directory of plain-text
// files. The filename is the key name and the trimmed contents are the value.
//
// Recognized keys: redis-password.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// RedisPassword is the file holding the Redis password.
const RedisPassword = "redis-password"

// Load reads every regular, non-hidden file in dir. A missing directory is
// not an error and yields an empty map. Unreadable files are logged and
// skipped; empty files are ignored.
func Load(dir string, logger *zap.Logger) (map[string]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("skipping unreadable secret", zap.String("name", name), zap.Error(err))
			continue
		}
		if v := strings.TrimSpace(string(data)); v != "" {
			out[name] = v
		}
	}
	return out, nil
}

// Resolve returns explicit when set, otherwise the secret named key in dir.
func Resolve(explicit, dir, key string, logger *zap.Logger) (string, error) {
	if explicit != "" || dir == "" {
		return explicit, nil
	}
	s, err := Load(dir, logger)
	if err != nil {
		return "", err
	}
	return s[key], nil
}
