package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// AppConfig holds the structure of the configuration
type AppConfig struct {
	SelfPath     string `json:"selfpath"`
	Port         string `json:"port"`
	Blocksize    int    `json:"blocksize"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	MaxWidth     int    `json:"maxwidth"`  // render-map 允许的最大宽度
	MaxHeight    int    `json:"maxheight"` // render-map 允许的最大高度
	TickInterval int    `json:"tickinterval"` // 毫秒
	Frontend     string `json:"frontend"`     // "http" 或 "terminal"
	Sound        bool   `json:"sound"`
	SkinPath     string `json:"skinpath"`
}

const (
	FrontendHTTP     = "http"
	FrontendTerminal = "terminal"
)

var (
	instance *AppConfig
	loadErr  error
	once     sync.Once
)

// Default returns the settings used when no config file exists yet.
func Default() *AppConfig {
	return &AppConfig{
		SelfPath:     "http://www.example.com", // Default value
		Port:         "38870",                  // Default value
		Blocksize:    20,
		Width:        16,
		Height:       16,
		MaxWidth:     64,
		MaxHeight:    64,
		TickInterval: 250,
		Frontend:     FrontendHTTP,
		Sound:        false,
		SkinPath:     "./skins",
	}
}

// LoadConfig initializes and returns the instance of AppConfig
func LoadConfig(filePath string) (*AppConfig, error) {
	once.Do(func() {
		instance, loadErr = Load(filePath)
	})
	return instance, loadErr
}

// Load reads filePath into a fresh config, writing the defaults there first when the
// file does not exist.
func Load(filePath string) (*AppConfig, error) {
	cfg := Default()
	// Load the config file if it exists, otherwise create one
	if _, err := os.Stat(filePath); errors.Is(err, os.ErrNotExist) {
		if err := saveConfig(filePath, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err := loadConfig(filePath, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", filePath, err)
	}
	return cfg, nil
}

// Validate checks the values the game cannot run without.
func (c *AppConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("width and height must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.MaxWidth < c.Width || c.MaxHeight < c.Height {
		return fmt.Errorf("maxwidth/maxheight %dx%d below the default board %dx%d", c.MaxWidth, c.MaxHeight, c.Width, c.Height)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tickinterval must be positive, got %d", c.TickInterval)
	}
	if c.Blocksize <= 0 {
		return fmt.Errorf("blocksize must be positive, got %d", c.Blocksize)
	}
	switch c.Frontend {
	case FrontendHTTP, FrontendTerminal:
	default:
		return fmt.Errorf("unknown frontend %q", c.Frontend)
	}
	return nil
}

// Interval is the tick cadence as a duration.
func (c *AppConfig) Interval() time.Duration {
	return time.Duration(c.TickInterval) * time.Millisecond
}

// loadConfig loads the settings from the file
func loadConfig(filePath string, cfg *AppConfig) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("decode %s: %w", filePath, err)
	}
	return nil
}

// saveConfig saves the current settings to the file
func saveConfig(filePath string, cfg *AppConfig) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}
