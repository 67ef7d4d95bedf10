// Package registry implements the process-wide device handle table
// (§4.7), adapted from the teacher's driver-registry shape: a lock held
// only during insert/remove/lookup, never during the I/O a caller then
// performs through the returned Device.
package registry

import (
	"context"
	"sync"

	"github.com/phoenix-retimer/phoenix/device"
	"github.com/phoenix-retimer/phoenix/discovery"
	"github.com/phoenix-retimer/phoenix/phoenixerr"
	"github.com/phoenix-retimer/phoenix/transport"
)

// Handle identifies one connected device for the lifetime of the process.
type Handle uint64

// Registry is the process-wide table mapping handles to live devices.
type Registry struct {
	mu      sync.Mutex
	next    Handle
	devices map[Handle]*device.Device
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{devices: make(map[Handle]*device.Device), next: 1}
}

// Connect opens t, probes slaveAddr for a genuine retimer, constructs a
// Device around it, and inserts it under a freshly allocated handle
// (§4.7). The registry lock is held only around handle allocation and
// map insertion, not around the probe I/O.
func (r *Registry) Connect(ctx context.Context, t transport.Transport, slaveAddr uint8) (Handle, error) {
	if err := t.Open(ctx); err != nil {
		return 0, phoenixerr.Wrap(phoenixerr.KindTransportError, "registry.Connect", "open failed", err)
	}

	identities, err := discovery.Discover(ctx, t, []uint8{slaveAddr})
	if err != nil {
		_ = t.Close()
		return 0, err
	}
	if len(identities) == 0 {
		_ = t.Close()
		return 0, phoenixerr.NewDeviceNotFound("registry.Connect", slaveAddr)
	}
	identity := identities[0]

	r.mu.Lock()
	handle := r.next
	r.next++
	identity.ProductHandle = uint32(handle)
	dev := device.New(t, slaveAddr, identity)
	r.devices[handle] = dev
	r.mu.Unlock()

	return handle, nil
}

// Disconnect removes handle from the table and closes its transport.
func (r *Registry) Disconnect(handle Handle) error {
	r.mu.Lock()
	dev, ok := r.devices[handle]
	if ok {
		delete(r.devices, handle)
	}
	r.mu.Unlock()

	if !ok {
		return phoenixerr.NewUnknownHandle(uint32(handle))
	}
	return dev.Disconnect()
}

// Get looks up the device behind handle.
func (r *Registry) Get(handle Handle) (*device.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dev, ok := r.devices[handle]
	if !ok {
		return nil, phoenixerr.NewUnknownHandle(uint32(handle))
	}
	return dev, nil
}

// Handles returns every currently connected handle, in no particular
// order.
func (r *Registry) Handles() []Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Handle, 0, len(r.devices))
	for h := range r.devices {
		out = append(out, h)
	}
	return out
}
