// Package config loads dashboard settings from a JSON file. Fields omitted
// from the file keep their defaults, so partial configs are safe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DashboardConfig represents the root configuration for the dashboard
// process. All fields are optional; the Get* methods supply defaults.
type DashboardConfig struct {
	// Data locations
	DataDir   *string `json:"data_dir,omitempty"`
	ReportDir *string `json:"report_dir,omitempty"`

	// HTTP server
	Listen     *string `json:"listen,omitempty"`
	AssetsHost *string `json:"assets_host,omitempty"`

	// Presentation knobs
	TopWards    *int    `json:"top_wards,omitempty"`
	TrendMonths *int    `json:"trend_months,omitempty"`
	ChartTheme  *string `json:"chart_theme,omitempty"`
}

// EmptyDashboardConfig returns a DashboardConfig with all fields unset.
func EmptyDashboardConfig() *DashboardConfig {
	return &DashboardConfig{}
}

// LoadDashboardConfig loads a DashboardConfig from a JSON file. The file
// must have a .json extension and stay under the max file size.
func LoadDashboardConfig(path string) (*DashboardConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyDashboardConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *DashboardConfig) Validate() error {
	if c.TopWards != nil && *c.TopWards < 1 {
		return fmt.Errorf("top_wards must be positive, got %d", *c.TopWards)
	}
	if c.TrendMonths != nil && *c.TrendMonths < 1 {
		return fmt.Errorf("trend_months must be positive, got %d", *c.TrendMonths)
	}
	if c.ChartTheme != nil {
		switch *c.ChartTheme {
		case "light", "dark":
		default:
			return fmt.Errorf("chart_theme must be \"light\" or \"dark\", got %q", *c.ChartTheme)
		}
	}
	return nil
}

// GetDataDir returns the dataset base directory or the default.
func (c *DashboardConfig) GetDataDir() string {
	if c.DataDir == nil || *c.DataDir == "" {
		return "datasets/unified"
	}
	return *c.DataDir
}

// GetReportDir returns the directory for exported report artifacts.
func (c *DashboardConfig) GetReportDir() string {
	if c.ReportDir == nil || *c.ReportDir == "" {
		return "reports"
	}
	return *c.ReportDir
}

// GetListen returns the HTTP listen address or the default.
func (c *DashboardConfig) GetListen() string {
	if c.Listen == nil || *c.Listen == "" {
		return ":8080"
	}
	return *c.Listen
}

// GetAssetsHost returns the ECharts assets host. Empty means the go-echarts
// default CDN.
func (c *DashboardConfig) GetAssetsHost() string {
	if c.AssetsHost == nil {
		return ""
	}
	return *c.AssetsHost
}

// GetTopWards returns how many wards the "top wards" views show.
func (c *DashboardConfig) GetTopWards() int {
	if c.TopWards == nil {
		return 15
	}
	return *c.TopWards
}

// GetTrendMonths returns how many trailing months the air-quality trend
// shows.
func (c *DashboardConfig) GetTrendMonths() int {
	if c.TrendMonths == nil {
		return 12
	}
	return *c.TrendMonths
}

// GetChartTheme returns the chart theme.
func (c *DashboardConfig) GetChartTheme() string {
	if c.ChartTheme == nil {
		return "light"
	}
	return *c.ChartTheme
}
