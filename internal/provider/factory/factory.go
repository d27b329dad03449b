// File: internal/provider/factory/factory.go
package factory

import (
	"context"
	"fmt"
	"hubstore/internal/config"
	"hubstore/internal/provider/registry"
	"hubstore/pkg/storage"
	"log/slog"
	"sort"
	"strings"
)

type Factory struct {
	cfg    *config.Config
	logger *slog.Logger
}

func NewFactory(cfg *config.Config, logger *slog.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// Returns a list of drivers that are registered and configured
func (f *Factory) GetConfiguredDrivers() []string {
	var configuredDrivers []string
	allRegistrations := registry.GetAllRegistrations()

	for name, registration := range allRegistrations {
		if registration.ConfigCheck(f.cfg) {
			configuredDrivers = append(configuredDrivers, name)
		}
	}
	sort.Strings(configuredDrivers)
	return configuredDrivers
}

// Checks if a specific driver is registered and configured
func (f *Factory) IsConfigured(driverName string) bool {
	registration, exists := registry.GetRegistration(driverName)
	if !exists {
		return false
	}
	return registration.ConfigCheck(f.cfg)
}

// Resolves which driver the process should run: the explicit 'driver' setting, or the
// only configured backend when exactly one block is present
func (f *Factory) ActiveDriverName() (string, error) {
	if f.cfg.Driver != "" {
		return f.cfg.Driver, nil
	}

	configured := f.GetConfiguredDrivers()
	switch len(configured) {
	case 0:
		return "", fmt.Errorf("no storage driver configured. Use 'hubstore config set driver <name>'. Supported drivers are: %v", registry.GetSupportedDrivers())
	case 1:
		return configured[0], nil
	default:
		return "", fmt.Errorf("several drivers are configured (%s); select one with 'hubstore config set driver <name>'", strings.Join(configured, ", "))
	}
}

// Initializes and returns the driver registered under driverName
func (f *Factory) GetDriver(ctx context.Context, driverName string) (storage.Driver, error) {
	normalizedName := strings.ToLower(driverName)
	driverLogger := f.logger.With("driver", normalizedName)

	registration, exists := registry.GetRegistration(normalizedName)
	if !exists {
		return nil, fmt.Errorf("unsupported driver: %s. Supported drivers are: %v", driverName, registry.GetSupportedDrivers())
	}

	if !registration.ConfigCheck(f.cfg) {
		return nil, fmt.Errorf("driver '%s' is not configured. Use 'hubstore config set %s.<key> <value>' (e.g., 'gcp.bucket' or 'disk.storage_root')", normalizedName, normalizedName)
	}

	if err := f.cfg.Validate(); err != nil {
		return nil, err
	}

	driver, err := registration.Initializer(ctx, f.cfg, driverLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize driver %s: %w", normalizedName, err)
	}

	driverLogger.Debug("Driver initialized", "readURLPrefix", driver.ReadURLPrefix())
	return driver, nil
}
