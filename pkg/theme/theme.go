// Package theme turns server-pushed presentation settings into a shared
// state object the UI renders from. The update path is explicit: there is
// one writer (Apply) and readers take snapshots.
package theme

import (
	"regexp"
	"strings"
	"sync"
)

// FallbackHSL is used when a primary color can't be parsed at all.
const FallbackHSL = "30 35% 33%"

var hslPattern = regexp.MustCompile(`^hsl\(\s*([\d.]+)\s*,\s*([\d.]+%)\s*,\s*([\d.]+%)\s*\)$`)

// ExtractHSL pulls the three components out of an "hsl(h, s%, l%)" string:
// "hsl(142, 71%, 45%)" -> "142, 71%, 45%". Input already in component form
// (contains a comma, no hsl wrapper) is returned unchanged. Anything else is
// unusable and yields FallbackHSL.
func ExtractHSL(color string) string {
	color = strings.TrimSpace(color)
	if m := hslPattern.FindStringSubmatch(color); m != nil {
		return m[1] + ", " + m[2] + ", " + m[3]
	}
	if !strings.HasPrefix(color, "hsl(") && strings.Contains(color, ",") {
		return color
	}
	return FallbackHSL
}

// Payload is the theme event broadcast to all clients.
type Payload struct {
	Variant    string `json:"variant"`
	Primary    string `json:"primary"`
	Appearance string `json:"appearance"`
	Radius     string `json:"radius"`
}

// State holds the presentation variables downstream UI consumes.
type State struct {
	mu   sync.RWMutex
	vars map[string]string
}

func NewState() *State {
	return &State{vars: make(map[string]string)}
}

// Apply reflects a theme payload into the state. A payload with an empty
// primary color changes nothing, matching the broadcast contract.
func (s *State) Apply(p Payload) {
	if p.Primary == "" {
		return
	}
	parts := splitHSL(ExtractHSL(p.Primary))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.vars["--primary-h"] = parts[0]
	s.vars["--primary-s"] = parts[1]
	s.vars["--primary-l"] = parts[2]
	if p.Variant != "" {
		s.vars["--theme-variant"] = p.Variant
	}
	if p.Appearance != "" {
		s.vars["--appearance"] = p.Appearance
	}
	if p.Radius != "" {
		s.vars["--radius"] = p.Radius
	}
}

// Get returns a single variable, empty if unset.
func (s *State) Get(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vars[name]
}

// Snapshot returns a copy of all variables.
func (s *State) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.vars))
	for k, v := range s.vars {
		out[k] = v
	}
	return out
}

// splitHSL breaks a component string into h/s/l. The fallback triple is
// space-separated; comma form is the common case.
func splitHSL(components string) [3]string {
	var fields []string
	if strings.Contains(components, ",") {
		fields = strings.Split(components, ",")
	} else {
		fields = strings.Fields(components)
	}
	var out [3]string
	for i := 0; i < 3 && i < len(fields); i++ {
		out[i] = strings.TrimSpace(fields[i])
	}
	return out
}
