package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Paintersrp/desk/internal/constants"
)

func GetConfigPath(homeDir string) string {
	return filepath.Join(
		homeDir,
		constants.ConfigDir,
		constants.ConfigFile+"."+constants.ConfigFileType,
	)
}

func EnsureConfigExists(homeDir string) error {
	configPath := GetConfigPath(homeDir)
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		file, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		file.Close()
	} else if err != nil {
		return fmt.Errorf("failed to check config file existence: %w", err)
	}

	if _, err := Load(homeDir); err != nil {
		var initErr *ConfigInitError
		if errors.As(err, &initErr) {
			return err
		}
		return &ConfigInitError{msg: "failed to load config", err: err}
	}

	return nil
}

// EnvFiles lists the dotenv files consulted, in precedence order.
func EnvFiles(homeDir string) []string {
	return []string{
		constants.EnvFile,
		filepath.Join(homeDir, constants.ConfigDir, constants.EnvFile),
	}
}

// LoadEnv reads any existing dotenv files and enables DESK_* overrides.
// Variables already present in the environment are never replaced.
func LoadEnv(homeDir string) error {
	var found []string
	for _, path := range EnvFiles(homeDir) {
		if _, err := os.Stat(path); err == nil {
			found = append(found, path)
		}
	}
	if len(found) > 0 {
		if err := godotenv.Load(found...); err != nil {
			return fmt.Errorf("failed to load env files: %w", err)
		}
	}

	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	return nil
}
