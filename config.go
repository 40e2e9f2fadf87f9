package funvec

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Limits bounds what the mutation path may do. The zero value of a field
// means "use the default".
type Limits struct {
	// MaxLen caps the length a vector may reach through growth-on-write.
	MaxLen int `yaml:"max_len"`
}

const defaultMaxLen = 1 << 31

// DefaultLimits returns the limits used when nothing is configured.
func DefaultLimits() Limits {
	return Limits{MaxLen: defaultMaxLen}
}

// LoadLimits reads a YAML limits block from path, e.g.
//
//	max_len: 1000000
//
// Omitted fields keep their defaults.
func LoadLimits(path string) (Limits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Limits{}, fmt.Errorf("failed to read limits config: %w", err)
	}
	l := DefaultLimits()
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Limits{}, fmt.Errorf("failed to parse limits config %s: %w", path, err)
	}
	if l.MaxLen <= 0 {
		l.MaxLen = defaultMaxLen
	}
	return l, nil
}

var (
	limitsMu sync.RWMutex
	limits   = DefaultLimits()
)

// SetLimits installs engine-wide limits, normally once at startup.
func SetLimits(l Limits) {
	if l.MaxLen <= 0 {
		l.MaxLen = defaultMaxLen
	}
	limitsMu.Lock()
	limits = l
	limitsMu.Unlock()
}

func currentLimits() Limits {
	limitsMu.RLock()
	defer limitsMu.RUnlock()
	return limits
}
