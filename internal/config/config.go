package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Crawl struct {
		SearchTerms       []string `yaml:"search_terms"`
		Locations         []string `yaml:"locations"`
		InitialCrawl      bool     `yaml:"initial_crawl"`
		FetchTimeoutSecs  int      `yaml:"fetch_timeout_seconds"`
		DelayBaseSecs     int      `yaml:"delay_base_seconds"`
		DelayJitterSecs   int      `yaml:"delay_jitter_seconds"`
		RequestsPerSecond float64  `yaml:"requests_per_second"`
	} `yaml:"crawl"`

	Sources struct {
		GoogleCareers struct {
			Enabled    bool `yaml:"enabled"`
			MaxScrolls int  `yaml:"max_scrolls"`
		} `yaml:"google_careers"`
		LinkedIn struct {
			Enabled       bool     `yaml:"enabled"`
			MaxPages      int      `yaml:"max_pages"`
			LocaleFilter  bool     `yaml:"locale_filter"`
			LocaleMarkers []string `yaml:"locale_markers"`
		} `yaml:"linkedin"`
	} `yaml:"sources"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
