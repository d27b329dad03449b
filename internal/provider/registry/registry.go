// File: internal/provider/registry/registry.go
package registry

import (
	"context"
	"fmt"
	"hubstore/internal/config"
	"hubstore/pkg/storage"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Defines the function signature for checking if a driver's configuration block is present
type DriverConfigCheck func(cfg *config.Config) bool

// Defines the function signature for constructing a driver from the configuration
type DriverInitializer func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Driver, error)

// Holds the necessary functions to check configuration and initialize a driver
type DriverRegistration struct {
	ConfigCheck DriverConfigCheck
	Initializer DriverInitializer
}

var (
	// Stores the registrations, keyed by the driver name (lowercase)
	driverRegistry = make(map[string]DriverRegistration)
	registryMu     sync.RWMutex
)

// Allows a driver implementation package to register itself during initialization (init())
func RegisterDriver(name string, registration DriverRegistration) {
	registryMu.Lock()
	defer registryMu.Unlock()

	normalizedName := strings.ToLower(name)
	if _, exists := driverRegistry[normalizedName]; exists {
		panic(fmt.Sprintf("driver %s already registered", normalizedName))
	}

	if registration.ConfigCheck == nil {
		panic(fmt.Sprintf("driver %s registration missing ConfigCheck", normalizedName))
	}
	if registration.Initializer == nil {
		panic(fmt.Sprintf("driver %s registration missing Initializer", normalizedName))
	}

	driverRegistry[normalizedName] = registration
}

// Returns a sorted list of all registered driver names
func GetSupportedDrivers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	drivers := make([]string, 0, len(driverRegistry))
	for name := range driverRegistry {
		drivers = append(drivers, name)
	}
	sort.Strings(drivers)
	return drivers
}

// Checks if a driver name has been registered
func IsSupported(driverName string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()

	_, exists := driverRegistry[strings.ToLower(driverName)]
	return exists
}

// Retrieves the registration details for a driver
func GetRegistration(driverName string) (DriverRegistration, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	registration, exists := driverRegistry[strings.ToLower(driverName)]
	return registration, exists
}

// Returns a copy of the entire registry map (primarily for use by the factory)
func GetAllRegistrations() map[string]DriverRegistration {
	registryMu.RLock()
	defer registryMu.RUnlock()

	registrations := make(map[string]DriverRegistration, len(driverRegistry))
	for k, v := range driverRegistry {
		registrations[k] = v
	}
	return registrations
}
