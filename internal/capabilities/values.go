package capabilities

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wheelibin/yadom/internal/models"
)

// Instance resolves a capability's instance from its state, then its
// parameters, then the given default.
func Instance(c *models.Capability, def string) string {
	if c == nil {
		return def
	}
	if c.State != nil && c.State.Instance != "" {
		return c.State.Instance
	}
	if c.Parameters.Instance != "" {
		return c.Parameters.Instance
	}
	return def
}

// StateValue returns the capability's current value, unwrapping {"value": x}.
func StateValue(c *models.Capability) any {
	if c == nil || c.State == nil {
		return nil
	}
	return unwrap(c.State.Value)
}

func unwrap(v any) any {
	if m, ok := v.(map[string]any); ok {
		if inner, ok := m["value"]; ok {
			return inner
		}
	}
	return v
}

func ToNumber(v any, def float64) float64 {
	switch val := unwrap(v).(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return n
		}
	}
	return def
}

func ToBool(v any) bool {
	switch val := unwrap(v).(type) {
	case bool:
		return val
	case string:
		b, _ := strconv.ParseBool(val)
		return b
	case float64:
		return val != 0
	}
	return false
}

func ToString(v any) string {
	switch val := unwrap(v).(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// PropertyValue finds a sensor reading by instance, matching on the
// property's instance or a type tag that contains it.
func PropertyValue(d *models.Device, instance string) (any, bool) {
	for _, p := range d.Properties {
		inst := p.Parameters.Instance
		if p.State != nil && p.State.Instance != "" {
			inst = p.State.Instance
		}
		if inst != instance && !strings.Contains(p.Type, instance) {
			continue
		}
		if p.State == nil || p.State.Value == nil {
			continue
		}
		return p.State.Value, true
	}
	return nil, false
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
