// Package config resolves a tail session configuration from a profile file
// and CLI overrides. Priority: built-in defaults < default profile < named
// profile < flags.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied before any profile or flag is consulted.
const (
	DefaultRegion        = "us-east-1"
	DefaultSince         = time.Hour
	DefaultPollInterval  = 5 * time.Second
	DefaultRetryInterval = 10 * time.Second
)

// TailConfig is the resolved, immutable configuration for one tail session.
// It is built once before the tail loop starts and never mutated afterward.
type TailConfig struct {
	LogGroup        string
	Region          string
	Endpoint        string
	FilterTokens    []string
	HighlightTokens []string
	ExcludeTokens   []string
	ExcludeStreams  []string
	Since           time.Duration
	PollInterval    time.Duration
	RetryInterval   time.Duration
	Colorize        bool
	Formatter       string
	FormatOptions   map[string]string
}

// Profile is one named entry in the config file. All fields are optional;
// zero values mean "not set" so profiles can be merged.
type Profile struct {
	LogGroup        string            `yaml:"log_group"`
	Region          string            `yaml:"region"`
	Endpoint        string            `yaml:"endpoint"`
	FilterTokens    []string          `yaml:"filter_tokens"`
	HighlightTokens []string          `yaml:"highlight_tokens"`
	ExcludeTokens   []string          `yaml:"exclude_tokens"`
	ExcludeStreams  []string          `yaml:"exclude_streams"`
	Since           string            `yaml:"since"`
	PollInterval    string            `yaml:"poll_interval"`
	Colorize        *bool             `yaml:"colorize"`
	Formatter       string            `yaml:"formatter"`
	FormatOptions   map[string]string `yaml:"format_options"`
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "cw-tail", "config.yml"), nil
}

const sampleConfig = `# cw-tail profiles. The "default" profile is merged under every other one.
default:
  region: us-east-1
  since: 1h
  colorize: true

# example:
#   log_group: your-log-group
#   highlight_tokens: [error, warning]
#   exclude_tokens: [debug]
#   formatter: json
#   format_options:
#     remove_keys: logger,request_id
#     key_value_pairs: "level:info,level:debug"
`

// LoadProfile reads the config file at path and returns the named profile
// merged over the default profile. A missing file is seeded with a commented
// sample and treated as empty. Unknown keys in the file are rejected.
func LoadProfile(path, name string) (Profile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if werr := writeSample(path); werr != nil {
			return Profile{}, werr
		}
		data = []byte(sampleConfig)
	} else if err != nil {
		return Profile{}, err
	}

	profiles, err := parseProfiles(data)
	if err != nil {
		return Profile{}, fmt.Errorf("config %s: %w", path, err)
	}

	merged := profiles["default"]
	if name != "" && name != "default" {
		named, ok := profiles[name]
		if !ok {
			return Profile{}, fmt.Errorf("config %s: profile %q not found", path, name)
		}
		merged = mergeProfiles(merged, named)
	}
	return merged, nil
}

func parseProfiles(data []byte) (map[string]Profile, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	profiles := make(map[string]Profile)
	if node.Kind == 0 {
		return profiles, nil
	}

	// Decode each profile separately so unknown keys report the profile name.
	var raw map[string]yaml.Node
	if err := node.Decode(&raw); err != nil {
		return nil, err
	}
	for name, sub := range raw {
		// Re-encode the sub-node so it can be run through a Decoder with
		// KnownFields enabled, which Node.Decode does not support.
		buf, err := yaml.Marshal(&sub)
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
		var p Profile
		dec := yaml.NewDecoder(bytes.NewReader(buf))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil && err != io.EOF {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
		profiles[name] = p
	}
	return profiles, nil
}

func writeSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(sampleConfig), 0644)
}

// mergeProfiles overlays set fields of over onto base.
func mergeProfiles(base, over Profile) Profile {
	if over.LogGroup != "" {
		base.LogGroup = over.LogGroup
	}
	if over.Region != "" {
		base.Region = over.Region
	}
	if over.Endpoint != "" {
		base.Endpoint = over.Endpoint
	}
	if len(over.FilterTokens) > 0 {
		base.FilterTokens = over.FilterTokens
	}
	if len(over.HighlightTokens) > 0 {
		base.HighlightTokens = over.HighlightTokens
	}
	if len(over.ExcludeTokens) > 0 {
		base.ExcludeTokens = over.ExcludeTokens
	}
	if len(over.ExcludeStreams) > 0 {
		base.ExcludeStreams = over.ExcludeStreams
	}
	if over.Since != "" {
		base.Since = over.Since
	}
	if over.PollInterval != "" {
		base.PollInterval = over.PollInterval
	}
	if over.Colorize != nil {
		base.Colorize = over.Colorize
	}
	if over.Formatter != "" {
		base.Formatter = over.Formatter
	}
	if len(over.FormatOptions) > 0 {
		base.FormatOptions = over.FormatOptions
	}
	return base
}

// Resolve builds a TailConfig from a merged profile. Flag overrides are
// applied by the caller before this step via the profile itself.
func (p Profile) Resolve() TailConfig {
	cfg := TailConfig{
		LogGroup:        p.LogGroup,
		Region:          DefaultRegion,
		Endpoint:        p.Endpoint,
		FilterTokens:    stripFilterPrefixes(p.FilterTokens),
		HighlightTokens: p.HighlightTokens,
		ExcludeTokens:   p.ExcludeTokens,
		ExcludeStreams:  p.ExcludeStreams,
		Since:           ParseSince(p.Since),
		PollInterval:    DefaultPollInterval,
		RetryInterval:   DefaultRetryInterval,
		Formatter:       p.Formatter,
		FormatOptions:   p.FormatOptions,
	}
	if p.Region != "" {
		cfg.Region = p.Region
	}
	if p.PollInterval != "" {
		if d, err := time.ParseDuration(p.PollInterval); err == nil && d > 0 {
			cfg.PollInterval = d
		}
	}
	if p.Colorize != nil {
		cfg.Colorize = *p.Colorize
	}
	if cfg.FormatOptions == nil {
		cfg.FormatOptions = map[string]string{}
	}
	return cfg
}
