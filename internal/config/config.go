// Package config loads the run-time configuration a scan executes under:
// host/user context carried onto the final report, per-phase timeouts, a
// severity, and collector hints (CollectorHints), which no code outside
// this package reads. Parsed with goccy/go-yaml, matching the rest of the pipeline's
// preference for the pack's own libraries over encoding/json or a
// hand-rolled config format.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// HostContext carries identifying metadata about the machine being
// scanned, available to collectors that need it (hostname overrides,
// environment tags).
type HostContext struct {
	Hostname string            `yaml:"hostname"`
	Tags     map[string]string `yaml:"tags"`
}

// CollectorHints tunes the executor's collection behavior without
// changing the compliance definition itself.
type CollectorHints struct {
	PreferBatch     bool `yaml:"prefer_batch"`
	MaxInstanceScan int  `yaml:"max_instances_per_object"`
}

// RunConfig is the full shape of a `cscan run --config` YAML document.
type RunConfig struct {
	Host              HostContext       `yaml:"host"`
	User              map[string]string `yaml:"user"`
	Collectors        CollectorHints    `yaml:"collectors"`
	CollectionTimeout time.Duration     `yaml:"collection_timeout"`
	RuntimeOpsTimeout time.Duration     `yaml:"runtime_ops_timeout"`
	EvaluationTimeout time.Duration     `yaml:"evaluation_timeout"`
	Severity          string            `yaml:"severity"`
}

// Default returns a RunConfig with the engine's default timeouts and an
// empty host context.
func Default() RunConfig {
	return RunConfig{
		CollectionTimeout: 30 * time.Second,
		RuntimeOpsTimeout: 10 * time.Second,
		EvaluationTimeout: 30 * time.Second,
		Severity:          "medium",
	}
}

// Load reads and parses a RunConfig from path, falling back to Default
// values for any field the document omits.
func Load(path string) (RunConfig, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
