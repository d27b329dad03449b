// File: cmd/hubstore/app.go
package main

import (
	"context"
	"errors"
	"fmt"
	"hubstore/internal/config"
	"hubstore/internal/provider/factory"
	"hubstore/internal/service"
	"hubstore/internal/ui/prompt"
	"hubstore/pkg/storage"
	"io"
	"log/slog"
)

// appContainer holds the shared dependencies of a single CLI invocation
type appContainer struct {
	Config        *config.Config
	ConfigManager *config.ConfigManager
	Factory       *factory.Factory
	Prompter      prompt.Prompter
	Logger        *slog.Logger
}

func newApp(configPath string, in io.Reader, out io.Writer, logger *slog.Logger) (*appContainer, error) {
	cfgManager, err := config.NewConfigManager(configPath)
	if err != nil {
		return nil, err
	}

	cfg, err := cfgManager.LoadConfig()
	if err != nil {
		return nil, err
	}

	return &appContainer{
		Config:        cfg,
		ConfigManager: cfgManager,
		Factory:       factory.NewFactory(cfg, logger),
		Prompter:      prompt.NewStandardPrompter(in, out),
		Logger:        logger,
	}, nil
}

// openHub initializes the active driver and blocks until its bucket has been provisioned.
// A driver whose provisioning failed is closed and never handed out.
func (a *appContainer) openHub(ctx context.Context, driverOverride string) (*service.HubStorage, string, error) {
	return a.openHubWhile(ctx, driverOverride, nil)
}

// openHubWhile runs prepare while the bucket is being provisioned. The driver is
// handed out only when both succeed.
func (a *appContainer) openHubWhile(ctx context.Context, driverOverride string, prepare func() error) (*service.HubStorage, string, error) {
	driverName := driverOverride
	if driverName == "" {
		name, err := a.Factory.ActiveDriverName()
		if err != nil {
			return nil, "", err
		}
		driverName = name
	}

	driver, err := a.Factory.GetDriver(ctx, driverName)
	if err != nil {
		return nil, "", err
	}

	provisioning := storage.StartProvisioning(ctx, driver)
	var prepareErr error
	if prepare != nil {
		prepareErr = prepare()
	}

	if err := provisioning.Wait(); err != nil {
		a.Logger.Error("Storage provisioning failed", "driver", driverName, "error", err)
		a.closeDriver(driverName, driver)
		return nil, "", err
	}
	if prepareErr != nil {
		a.closeDriver(driverName, driver)
		return nil, "", prepareErr
	}

	return service.NewHubStorage(driver, a.Logger), driverName, nil
}

func (a *appContainer) closeDriver(name string, driver storage.Driver) {
	if err := driver.Close(); err != nil {
		a.Logger.Warn("Failed to close storage driver", "driver", name, "error", err)
	}
}

type appContextKey struct{}

func contextWithApp(ctx context.Context, app *appContainer) context.Context {
	return context.WithValue(ctx, appContextKey{}, app)
}

func appFromContext(ctx context.Context) (*appContainer, error) {
	if ctx == nil {
		return nil, errors.New("command context is not set")
	}
	app, ok := ctx.Value(appContextKey{}).(*appContainer)
	if !ok || app == nil {
		return nil, fmt.Errorf("application is not initialized")
	}
	return app, nil
}
