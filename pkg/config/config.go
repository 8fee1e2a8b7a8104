package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ModelSettings struct {
		Temperature float64 `yaml:"temperature"`
		TopP        float64 `yaml:"top_p"`
	} `yaml:"model_settings"`
	Session struct {
		TimeoutMinutes int `yaml:"timeout_minutes"`
		MaxNameLength  int `yaml:"max_name_length"`
	} `yaml:"session"`
	Broadcast struct {
		Hour            int    `yaml:"hour"`
		DefaultTimezone string `yaml:"default_timezone"`
	} `yaml:"broadcast"`
	Images struct {
		Dir            string `yaml:"dir"`
		MaxWidth       int    `yaml:"max_width"`
		MaxHeight      int    `yaml:"max_height"`
		ThresholdBytes int64  `yaml:"threshold_bytes"`
	} `yaml:"images"`
}

func LoadConfig(path string) (*Config, error) {
	config := &Config{}

	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		// Set default values
		config.ModelSettings.Temperature = 1
		config.ModelSettings.TopP = 1
		config.Session.TimeoutMinutes = 5
		config.Session.MaxNameLength = 100
		config.Broadcast.Hour = 9
		config.Broadcast.DefaultTimezone = "UTC"
		config.Images.Dir = "images"
		config.Images.MaxWidth = 1024
		config.Images.MaxHeight = 1536
		config.Images.ThresholdBytes = 2 * 1024 * 1024
		return config, nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(file, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}
