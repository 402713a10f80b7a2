// Package loader provides the feature loading system.
//
// Each feature implements the Feature interface, which reports whether it is enabled
// and registers its routes on the Fiber router.
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
// Manager keeps the registry of features:
//   - Register adds a feature
//   - LoadAll loads every enabled feature in registration order
package loader
