package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Thresholds names the two metric columns checked by the QC verdict and
// their exclusive upper bounds.
type Thresholds struct {
	SharpnessColumn string  `toml:"sharpness_column"`
	SharpnessMax    float64 `toml:"sharpness_max"`
	SpecularColumn  string  `toml:"specular_column"`
	SpecularMax     float64 `toml:"specular_max"`
}

// Config holds every setting of a QC batch run.
type Config struct {
	InputPaths    []string `toml:"input_paths"`
	OutputCSVPath string   `toml:"output_csv"`
	OutputDir     string   `toml:"output_dir"`

	FilePathColumn string     `toml:"filepath_column"`
	VerdictColumn  string     `toml:"verdict_column"`
	Thresholds     Thresholds `toml:"thresholds"`

	RealLabels      []string `toml:"real_labels"`
	PhotocopyLabels []string `toml:"photocopy_labels"`

	Slices                 int  `toml:"slices"`
	ThumbnailWidth         int  `toml:"thumbnail_width"`
	ThumbnailHeight        int  `toml:"thumbnail_height"`
	LabelPrecision         int  `toml:"label_precision"`
	Workers                int  `toml:"workers"`
	CacheDecodedImages     bool `toml:"cache_decoded_images"`
	IncludeVerdictAsMetric bool `toml:"include_verdict_as_metric"`

	PlotTitle        string    `toml:"plot_title"`
	PlotWidthInches  float64   `toml:"plot_width_inches"`
	PlotHeightInches float64   `toml:"plot_height_inches"`
	GroupNames       [2]string `toml:"group_names"`

	AzureAccountName  string        `toml:"azure_account_name"`
	AzureAccountKey   string        `toml:"-"`
	ImageFetchTimeout time.Duration `toml:"-"`
	LogLevel          string        `toml:"log_level"`
}

// Default returns the settings the analysis has always run with.
func Default() Config {
	return Config{
		InputPaths:     []string{"iPhone 13 Mini Q0a data.csv"},
		OutputCSVPath:  "iPhone 13 Mini QC output.csv",
		OutputDir:      ".",
		FilePathColumn: "filepath",
		VerdictColumn:  "didPassQC",
		Thresholds: Thresholds{
			SharpnessColumn: "checkFrameSharpness",
			SharpnessMax:    0.2579,
			SpecularColumn:  "checkSpecularReflection",
			SpecularMax:     1.05,
		},
		RealLabels:        []string{"Real", "real", "REAL"},
		PhotocopyLabels:   []string{"Photocopy", "photocopy", "PHOTOCOPY", "fake", "fakes", "Fakes", "Fake"},
		Slices:            5,
		ThumbnailWidth:    500,
		ThumbnailHeight:   500,
		LabelPrecision:    5,
		Workers:           0, // runtime.NumCPU()
		PlotTitle:         "iPhone 13 Mini Q0a QC data",
		PlotWidthInches:   20,
		PlotHeightInches:  10,
		GroupNames:        [2]string{"Reals", "Photocopies"},
		ImageFetchTimeout: 15 * time.Second,
		LogLevel:          "info",
	}
}

// LoadFromEnv layers an optional TOML file (QC_CONFIG_FILE) and environment
// overrides on top of Default, then validates the result.
func LoadFromEnv() (*Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("QC_CONFIG_FILE")); path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}

	if paths := os.Getenv("QC_INPUT_PATHS"); paths != "" {
		cfg.InputPaths = splitList(paths)
	}
	cfg.OutputCSVPath = getEnvOrDefault("QC_OUTPUT_CSV", cfg.OutputCSVPath)
	cfg.OutputDir = getEnvOrDefault("QC_OUTPUT_DIR", cfg.OutputDir)
	cfg.Workers = parseIntOrDefault("QC_WORKERS", cfg.Workers)
	cfg.Slices = parseIntOrDefault("QC_SLICES", cfg.Slices)
	if size := parseIntOrDefault("QC_THUMBNAIL_SIZE", 0); size != 0 {
		cfg.ThumbnailWidth, cfg.ThumbnailHeight = size, size
	}
	cfg.CacheDecodedImages = parseBoolOrDefault("QC_CACHE_IMAGES", cfg.CacheDecodedImages)
	cfg.ImageFetchTimeout = parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", cfg.ImageFetchTimeout)
	cfg.AzureAccountName = getEnvOrDefault("AZURE_STORAGE_ACCOUNT", cfg.AzureAccountName)
	cfg.AzureAccountKey = getEnvOrDefault("AZURE_STORAGE_KEY", cfg.AzureAccountKey)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) decodeFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := toml.NewDecoder(file).Decode(c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate reports the first setting that cannot drive a run.
func (c *Config) Validate() error {
	if len(c.InputPaths) == 0 {
		return fmt.Errorf("at least one input path is required")
	}
	for _, p := range c.InputPaths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("input paths must not be empty")
		}
	}
	if strings.TrimSpace(c.FilePathColumn) == "" || strings.TrimSpace(c.VerdictColumn) == "" {
		return fmt.Errorf("filepath and verdict column names are required")
	}
	if c.Thresholds.SharpnessColumn == "" || c.Thresholds.SpecularColumn == "" {
		return fmt.Errorf("threshold column names are required")
	}
	if len(c.RealLabels) == 0 || len(c.PhotocopyLabels) == 0 {
		return fmt.Errorf("label vocabularies must not be empty")
	}
	if c.Slices <= 0 {
		return fmt.Errorf("slices must be > 0 (got %d)", c.Slices)
	}
	if c.ThumbnailWidth <= 0 || c.ThumbnailHeight <= 0 {
		return fmt.Errorf("thumbnail size must be > 0 (got %dx%d)", c.ThumbnailWidth, c.ThumbnailHeight)
	}
	if c.LabelPrecision < 0 {
		return fmt.Errorf("label precision must be >= 0 (got %d)", c.LabelPrecision)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0 (got %d)", c.Workers)
	}
	if c.PlotWidthInches <= 0 || c.PlotHeightInches <= 0 {
		return fmt.Errorf("plot size must be > 0 (got %gx%g)", c.PlotWidthInches, c.PlotHeightInches)
	}
	if c.ImageFetchTimeout <= 0 {
		return fmt.Errorf("image fetch timeout must be > 0 (got %s)", c.ImageFetchTimeout)
	}
	return nil
}

// OutputPath joins name onto the output directory. Absolute names are
// returned unchanged.
func (c *Config) OutputPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.OutputDir, name)
}

func splitList(value string) []string {
	var out []string
	for _, p := range filepath.SplitList(value) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}
