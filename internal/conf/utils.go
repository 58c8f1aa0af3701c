// conf/utils.go helpers for locating configuration
package conf

import (
	"os"
	"path/filepath"

	"github.com/tphakala/fretboard-go/internal/errors"
)

const appDirName = "fretboard"

// GetDefaultConfigPaths returns the directories searched for config.yaml:
// the working directory and the user config directory. When one of them
// already holds a config file only that directory is returned.
func GetDefaultConfigPaths() ([]string, error) {
	userDir, err := os.UserConfigDir()
	if err != nil {
		return nil, errors.New(err).
			Component("configuration").
			Category(errors.CategorySystem).
			Context("operation", "get-user-config-dir").
			Build()
	}

	configPaths := []string{
		filepath.Join(userDir, appDirName),
		".",
	}

	for _, path := range configPaths {
		if _, err := os.Stat(filepath.Join(path, configFileName)); err == nil {
			return []string{path}, nil
		}
	}
	return configPaths, nil
}
