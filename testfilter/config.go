package testfilter

import (
	"fmt"
	"net/http"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// LoadConfig reads an externalized rule table from a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read rules file: %v", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode rules file: %v", err)
	}
	return cfg, nil
}

// LoadConfigFromURL fetches a rule table published over HTTP(S), so several
// CI pipelines can share one table without vendoring it.
func LoadConfigFromURL(url string) (Config, error) {
	resp, err := http.Get(url)
	if err != nil {
		return Config{}, fmt.Errorf("failed to fetch rules from URL: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Config{}, fmt.Errorf("failed to fetch rules: HTTP %d", resp.StatusCode)
	}

	var cfg Config
	dec := yaml.NewDecoder(resp.Body)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode rules: %v", err)
	}
	return cfg, nil
}
