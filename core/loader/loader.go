package loader

import "github.com/gofiber/fiber/v2"

// Feature is a pluggable unit of the debug server. Each diagnostic surface
// (cache stats, tile manager state, scene status) implements this to
// register its own routes under the shared fiber.Router.
type Feature interface {
	Name() string
	IsEnabled() bool
	Load(router fiber.Router) error
}

// Manager holds the registry of features and loads the enabled ones.
type Manager struct {
	features []Feature
}

// NewManager creates an empty feature registry.
func NewManager() *Manager {
	return &Manager{}
}

// Register adds a feature to the registry. Order is preserved, so a
// feature's Load runs in registration order.
func (m *Manager) Register(f Feature) {
	m.features = append(m.features, f)
}

// LoadAll loads every registered feature that reports IsEnabled, in
// registration order. It stops and returns the first error encountered.
func (m *Manager) LoadAll(router fiber.Router) error {
	for _, f := range m.features {
		if !f.IsEnabled() {
			continue
		}
		if err := f.Load(router); err != nil {
			return err
		}
	}
	return nil
}
