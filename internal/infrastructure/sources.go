package infrastructure

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SourceKind selects the adapter used to fetch a source.
type SourceKind string

const (
	SourceKindAPI SourceKind = "api"
	SourceKindRSS SourceKind = "rss"
)

// SourceConfig describes one configured news source.
type SourceConfig struct {
	Name     string     `yaml:"name"`
	Kind     SourceKind `yaml:"kind"`
	URL      string     `yaml:"url"`
	Priority int        `yaml:"priority"`
	Limit    int        `yaml:"limit"`
	Enabled  bool       `yaml:"enabled"`
}

type sourcesFile struct {
	Sources []SourceConfig `yaml:"sources"`
}

// LoadSources reads the YAML source list. Only enabled sources are
// returned. A missing file yields the built-in defaults.
func LoadSources(path string) ([]SourceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultSources(), nil
		}
		return nil, fmt.Errorf("reading sources file: %w", err)
	}

	var f sourcesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing sources file: %w", err)
	}

	var enabled []SourceConfig
	for _, s := range f.Sources {
		if !s.Enabled {
			continue
		}
		if s.Name == "" || s.URL == "" {
			return nil, fmt.Errorf("source entry missing name or url")
		}
		if s.Kind != SourceKindAPI && s.Kind != SourceKindRSS {
			return nil, fmt.Errorf("source %s: unknown kind %q", s.Name, s.Kind)
		}
		enabled = append(enabled, s)
	}
	return enabled, nil
}

func defaultSources() []SourceConfig {
	return []SourceConfig{
		{
			Name:     "jinse",
			Kind:     SourceKindAPI,
			URL:      "https://api.jinse.cn/noah/v2/lives",
			Priority: 1,
			Limit:    60,
			Enabled:  true,
		},
		{
			Name:     "cointelegraph",
			Kind:     SourceKindRSS,
			URL:      "https://rsshub.app/cointelegraph",
			Priority: 2,
			Enabled:  true,
		},
		{
			Name:     "theblock",
			Kind:     SourceKindRSS,
			URL:      "https://rsshub.app/theblock",
			Priority: 3,
			Enabled:  true,
		},
	}
}
