package registry

import (
	"context"
	"hubstore/internal/config"
	"hubstore/pkg/storage"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistration() DriverRegistration {
	return DriverRegistration{
		ConfigCheck: func(cfg *config.Config) bool { return cfg.Disk != nil },
		Initializer: func(context.Context, *config.Config, *slog.Logger) (storage.Driver, error) {
			return nil, nil
		},
	}
}

func TestRegisterDriverNormalizesName(t *testing.T) {
	RegisterDriver("Registry-Test", testRegistration())

	assert.True(t, IsSupported("registry-test"))
	assert.True(t, IsSupported("REGISTRY-TEST"))
	assert.Contains(t, GetSupportedDrivers(), "registry-test")

	reg, ok := GetRegistration("registry-test")
	require.True(t, ok)
	assert.True(t, reg.ConfigCheck(&config.Config{Disk: &config.DiskConfig{}}))

	_, ok = GetAllRegistrations()["registry-test"]
	assert.True(t, ok)
}

func TestRegisterDriverPanics(t *testing.T) {
	RegisterDriver("registry-dup", testRegistration())
	assert.Panics(t, func() { RegisterDriver("registry-dup", testRegistration()) })

	assert.Panics(t, func() {
		RegisterDriver("registry-no-check", DriverRegistration{Initializer: testRegistration().Initializer})
	})
	assert.Panics(t, func() {
		RegisterDriver("registry-no-init", DriverRegistration{ConfigCheck: testRegistration().ConfigCheck})
	})
}

func TestGetAllRegistrationsReturnsCopy(t *testing.T) {
	all := GetAllRegistrations()
	all["registry-injected"] = testRegistration()
	assert.False(t, IsSupported("registry-injected"))
}

func TestSupportedDriversSorted(t *testing.T) {
	RegisterDriver("registry-zz", testRegistration())
	RegisterDriver("registry-aa", testRegistration())
	assert.IsIncreasing(t, GetSupportedDrivers())
}
