package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/julianstephens/studyplan/internal/constants"
)

const (
	DefaultAIModel     = "claude-sonnet-4-5"
	DefaultAIMaxTokens = 8192
)

type AI struct {
	Model     string
	MaxTokens int
	APIKey    string
}

// Config is the resolved application configuration. Flags override values
// from the environment, which override the config file.
type Config struct {
	Dir          string
	File         string // config file in use, empty when none was found
	Store        string
	Timezone     string
	TemplatesDir string
	Debug        bool
	AI           AI
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand %q: %w", path, err)
	}
	return expanded, nil
}

func newViper(dir string) *viper.Viper {
	v := viper.New()
	v.SetDefault("store", filepath.Join(dir, filepath.Base(constants.DefaultStorePath)))
	v.SetDefault("timezone", constants.DefaultTimezone)
	v.SetDefault("templates_dir", filepath.Join(dir, "templates"))
	v.SetDefault("debug", false)
	v.SetDefault("ai.model", DefaultAIModel)
	v.SetDefault("ai.max_tokens", DefaultAIMaxTokens)
	v.SetDefault("ai.api_key", "")

	v.SetConfigName(constants.ConfigFileName) // .yaml, .toml and .json are all accepted
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv(constants.EnvPrefix + "_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath(dir)
	return v
}

// Load reads configuration from dir (typically ~/.config/studyplan). A
// missing config file is not an error.
func Load(dir string) (*Config, error) {
	dir, err := ExpandPath(dir)
	if err != nil {
		return nil, err
	}

	v := newViper(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	store, err := ExpandPath(v.GetString("store"))
	if err != nil {
		return nil, err
	}
	templatesDir, err := ExpandPath(v.GetString("templates_dir"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Dir:          dir,
		File:         v.ConfigFileUsed(),
		Store:        store,
		Timezone:     v.GetString("timezone"),
		TemplatesDir: templatesDir,
		Debug:        v.GetBool("debug"),
		AI: AI{
			Model:     v.GetString("ai.model"),
			MaxTokens: v.GetInt("ai.max_tokens"),
			APIKey:    v.GetString("ai.api_key"),
		},
	}, nil
}

// WriteDefault writes a config.yaml with default values into dir unless one
// already exists. It returns the path of the file.
func WriteDefault(dir string) (string, error) {
	dir, err := ExpandPath(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	path := filepath.Join(dir, constants.ConfigFileName+".yaml")
	// No env binding here so secrets from the environment never reach the
	// file; the API key belongs in the keyring.
	v := viper.New()
	v.Set("store", filepath.Join(dir, filepath.Base(constants.DefaultStorePath)))
	v.Set("timezone", constants.DefaultTimezone)
	v.Set("templates_dir", filepath.Join(dir, "templates"))
	v.Set("debug", false)
	v.Set("ai.model", DefaultAIModel)
	v.Set("ai.max_tokens", DefaultAIMaxTokens)
	if err := v.SafeWriteConfigAs(path); err != nil {
		var exists viper.ConfigFileAlreadyExistsError
		if errors.As(err, &exists) {
			return path, nil
		}
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}
