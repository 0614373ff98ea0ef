package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AppConfig is the studio's persisted configuration.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Paths   PathsConfig   `yaml:"paths"`
	Backend BackendConfig `yaml:"backend"`
	LM      LMConfig      `yaml:"lm"`
}

type ServerConfig struct {
	Port     int    `yaml:"port"`
	Language string `yaml:"language"`
}

type PathsConfig struct {
	ModelsDir    string `yaml:"models_dir"`
	OutputsDir   string `yaml:"outputs_dir"`
	DatasetIndex string `yaml:"dataset_index"`
	// RetentionHours limits how long generated audio is kept; 0 keeps forever.
	RetentionHours int `yaml:"retention_hours"`
}

type BackendConfig struct {
	URL string `yaml:"url"`
}

type LMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// InitParams describes pre-initialization state handed to the UI: whether a
// serving instance was already started before page assembly, and the config
// path/device defaults the generation section should show.
type InitParams struct {
	PreInitialized bool   `yaml:"pre_initialized"`
	ConfigPath     string `yaml:"config_path"`
	Checkpoint     string `yaml:"checkpoint"`
	Device         string `yaml:"device"`
}

// Default returns the configuration used when no file exists yet.
func Default() *AppConfig {
	return &AppConfig{
		Server:  ServerConfig{Port: 7865, Language: "en"},
		Paths:   PathsConfig{ModelsDir: "checkpoints", OutputsDir: "outputs", DatasetIndex: "datasets.db", RetentionHours: 72},
		Backend: BackendConfig{URL: "http://localhost:8001"},
		LM:      LMConfig{BaseURL: "http://localhost:1234/v1", Model: "qwen2.5-7b-instruct"},
	}
}

func GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "acestep-studio"), nil
}

func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadAppConfig reads the config file, returning defaults when it does not
// exist.
func LoadAppConfig() (*AppConfig, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadAppConfigFrom(path)
}

// LoadAppConfigFrom reads a config file from an explicit path.
func LoadAppConfigFrom(path string) (*AppConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveAppConfig writes the config to the user config dir.
func SaveAppConfig(cfg *AppConfig) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
