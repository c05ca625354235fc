package mapping

import (
	"fmt"
	"path/filepath"
	"strings"
)

// EnvSources is read when no inputs are configured. It holds comma
// separated shorthand entries.
const EnvSources = "CONTENT_SYNC"

// Input is one user-supplied sync configuration. It is either a Shorthand
// or a Structured value; Build normalises both into a Mapping.
type Input interface {
	normalize(site Site) Mapping
}

// Shorthand is "source<sep>target", where sep is the OS path list
// separator (':' on Unix, ';' on Windows). The target is optional.
type Shorthand string

func (s Shorthand) normalize(site Site) Mapping {
	source, target, _ := SplitShorthand(string(s))
	return Structured{Source: source, Target: target}.normalize(site)
}

// SplitShorthand splits "source<sep>target" at the first path list
// separator. found is false when there is no target part.
func SplitShorthand(s string) (source, target string, found bool) {
	return strings.Cut(strings.TrimSpace(s), string(filepath.ListSeparator))
}

// Structured is the object form of an input.
type Structured struct {
	Source  string   `json:"source" yaml:"source" toml:"source" mapstructure:"source"`
	Target  string   `json:"target,omitempty" yaml:"target,omitempty" toml:"target,omitempty" mapstructure:"target"`
	Ignored []string `json:"ignored,omitempty" yaml:"ignored,omitempty" toml:"ignored,omitempty" mapstructure:"ignored"`
}

func (s Structured) normalize(site Site) Mapping {
	m := Mapping{
		Source:  absPath(s.Source),
		Target:  absPath(s.Target),
		Ignored: []string{},
	}
	if m.Target == "" {
		m.Target = site.ContentDir()
	}
	for _, pattern := range s.Ignored {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			m.Ignored = append(m.Ignored, pattern)
		}
	}
	return m
}

func absPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// ParseEnv splits the value of EnvSources into shorthand inputs.
func ParseEnv(value string) []Input {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	var inputs []Input
	for _, part := range strings.Split(value, ",") {
		inputs = append(inputs, Shorthand(strings.TrimSpace(part)))
	}
	return inputs
}

// ParseInput converts a decoded configuration value (a string or a map as
// produced by viper) into an Input.
func ParseInput(value any) (Input, error) {
	switch v := value.(type) {
	case string:
		return Shorthand(v), nil
	case Structured:
		return v, nil
	case map[string]any:
		return structuredFromMap(v)
	case map[any]any:
		converted := make(map[string]any, len(v))
		for key, val := range v {
			converted[fmt.Sprint(key)] = val
		}
		return structuredFromMap(converted)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedInput, value)
	}
}

func structuredFromMap(m map[string]any) (Input, error) {
	var s Structured
	for key, val := range m {
		switch strings.ToLower(key) {
		case "source":
			s.Source = stringValue(val)
		case "target":
			s.Target = stringValue(val)
		case "ignored":
			if val == nil {
				continue
			}
			list, ok := val.([]any)
			if !ok {
				if strs, ok := val.([]string); ok {
					s.Ignored = append(s.Ignored, strs...)
					continue
				}
				return nil, fmt.Errorf("%w: ignored must be a list, got %T", ErrUnsupportedInput, val)
			}
			for _, item := range list {
				s.Ignored = append(s.Ignored, stringValue(item))
			}
		}
	}
	return s, nil
}

func stringValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
