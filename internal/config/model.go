package config

import "time"

// Defaults applied when a field is absent from every loaded file.
const (
	DefaultListen     = ":8701"
	DefaultNamespace  = "/canvas"
	DefaultGraceDelay = 2 * time.Second
	DefaultNodeColor  = "#f97316"
)

// Config is the unified canvas configuration assembled from all loaded
// HCL files.
type Config struct {
	// Listen is the address the channel server binds to.
	Listen string
	// Namespace is the socket.io namespace the engine connects to.
	Namespace string
	// GraceDelay is how long completed-run dedup entries are retained
	// to absorb late duplicate notifications.
	GraceDelay time.Duration

	Theme Theme

	// Defaults pre-populates per-node per-port input values before the
	// user has typed anything.
	Defaults map[string]map[string]any
}

// Theme maps node type tags to badge colors.
type Theme struct {
	DefaultColor string
	NodeColors   map[string]string
}

// Color resolves the badge color for a node type, falling back to the
// theme default for unknown types.
func (t Theme) Color(nodeType string) string {
	if c, ok := t.NodeColors[nodeType]; ok {
		return c
	}
	return t.DefaultColor
}

// NewDefault returns a config with every field at its default.
func NewDefault() *Config {
	return &Config{
		Listen:     DefaultListen,
		Namespace:  DefaultNamespace,
		GraceDelay: DefaultGraceDelay,
		Theme: Theme{
			DefaultColor: DefaultNodeColor,
			NodeColors:   map[string]string{},
		},
		Defaults: map[string]map[string]any{},
	}
}
