package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const userConfigName = "config.yml"

// EnsureUserConfig returns the path of the engine's own config.yml in
// dataDir. A missing file is seeded from the shipped template at
// templatePath, or from Defaults when no template ships. Seeded configs
// are not validated; the backend URL usually comes from the env overlay.
func EnsureUserConfig(dataDir, templatePath string) (string, error) {
	userPath := filepath.Join(dataDir, userConfigName)

	switch _, err := os.Stat(userPath); {
	case err == nil:
		return userPath, nil
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("stat %s: %w", userPath, err)
	}

	if templatePath == "" {
		return userPath, writeAtomic(userPath, Defaults())
	}
	tmpl, err := os.ReadFile(templatePath)
	if errors.Is(err, os.ErrNotExist) {
		return userPath, writeAtomic(userPath, Defaults())
	}
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", err
	}
	// O_EXCL so a second engine racing on the same dir never clobbers a
	// config the first one already seeded.
	f, err := os.OpenFile(userPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return userPath, nil
	}
	if err != nil {
		return "", err
	}
	if _, err := f.Write(tmpl); err != nil {
		_ = f.Close()
		return "", err
	}
	return userPath, f.Close()
}
