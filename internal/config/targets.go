package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Target — именованный вебхук для форвардинга.
type Target struct {
	Name    string            `yaml:"name"`
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers"`
}

// Targets — конфиг форвардинга из targets.yaml.
// Когда файла нет, остаётся один дефолтный таргет из TARGET_URL.
type Targets struct {
	Default string   `yaml:"default"`
	Targets []Target `yaml:"targets"`

	byName map[string]Target
}

// LoadTargets читает targets.yaml (путь может быть пустым) и env TARGET_URL.
func LoadTargets(path string) (*Targets, error) {
	t := &Targets{byName: make(map[string]Target)}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read targets file: %w", err)
		}
		if err := yaml.Unmarshal(data, t); err != nil {
			return nil, fmt.Errorf("parse targets file: %w", err)
		}
		t.byName = make(map[string]Target, len(t.Targets))
		for _, target := range t.Targets {
			if target.Name == "" || target.URL == "" {
				return nil, fmt.Errorf("target needs both name and url")
			}
			t.byName[target.Name] = target
		}
		if t.Default != "" {
			if _, ok := t.byName[t.Default]; !ok {
				return nil, fmt.Errorf("default target %q is not defined", t.Default)
			}
		}
	}

	if envURL := os.Getenv("TARGET_URL"); envURL != "" {
		if _, ok := t.byName["default"]; !ok {
			target := Target{Name: "default", URL: envURL}
			t.Targets = append(t.Targets, target)
			t.byName["default"] = target
			if t.Default == "" {
				t.Default = "default"
			}
		}
	}

	return t, nil
}

// Resolve выбирает URL и заголовки таргета.
// Явный URL из запроса главнее имени, имя главнее дефолта.
func (t *Targets) Resolve(name, explicitURL string) (string, map[string]string, error) {
	if explicitURL != "" {
		return explicitURL, nil, nil
	}

	if name == "" {
		name = t.Default
	}
	if name == "" {
		return "", nil, fmt.Errorf("no forward target configured")
	}

	target, ok := t.byName[name]
	if !ok {
		return "", nil, fmt.Errorf("unknown forward target %q", name)
	}

	return target.URL, target.Headers, nil
}

// Names — имена всех таргетов, для GET /targets.
func (t *Targets) Names() []string {
	names := make([]string, 0, len(t.byName))
	for name := range t.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
