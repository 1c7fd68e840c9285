package scenario

import (
	"fmt"
	"sort"
	"strings"

	"github.com/idanarye/yoetz/advisor"
)

// Params is the payload of a scenario variant that carries data: a variant
// tag and named numeric parameters.
type Params struct {
	V      advisor.VariantID
	Values map[string]float64
}

// Variant implements advisor.Payload.
func (p Params) Variant() advisor.VariantID { return p.V }

// String renders the values sorted by key, e.g. "{speed=2 target=1}".
func (p Params) String() string {
	keys := make([]string, 0, len(p.Values))
	for k := range p.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, p.Values[k])
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// mergeParams returns base overlaid with override; nil when both are empty.
func mergeParams(base, override map[string]float64) map[string]float64 {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]float64, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
