// File: pkg/storage/provision.go
package storage

import (
	"context"
)

// Provision runs the driver's ensure-bucket step, if it has one.
// Any failure is returned as a *ProvisioningError; deciding whether that is fatal
// is left to the caller.
func Provision(ctx context.Context, d Driver) error {
	p, ok := d.(Provisioner)
	if !ok {
		return nil
	}
	if err := p.EnsureBucket(ctx); err != nil {
		return &ProvisioningError{Bucket: p.BucketName(), Err: err}
	}
	return nil
}

// Provisioning tracks a provisioning step running in the background
type Provisioning struct {
	done chan struct{}
	err  error
}

// StartProvisioning launches Provision without blocking the caller.
// The driver must not serve requests until Wait has returned nil.
func StartProvisioning(ctx context.Context, d Driver) *Provisioning {
	p := &Provisioning{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.err = Provision(ctx, d)
	}()
	return p
}

// Done is closed once provisioning has finished, successfully or not
func (p *Provisioning) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until provisioning finishes and returns its outcome
func (p *Provisioning) Wait() error {
	<-p.done
	return p.err
}
