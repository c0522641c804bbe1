// Package mount implements the mount/rider link: which entity is mounted
// on which, and the checks that forbid self-mounts, double-mounts, and mount
// cycles. Dismount ground-finding is physics.FindDismountSpot.
package mount

import (
	"errors"
	"sync"

	"github.com/ashfall-games/worldcore/internal/ecs"
)

// ErrNoSuchEntity is returned when mount or rider doesn't exist.
var ErrNoSuchEntity = errors.New("mount: no such entity")

// ErrNotMountable is returned when the mount/rider pair would violate an
// invariant: self-mount, either side already linked, or a cycle.
var ErrNotMountable = errors.New("mount: not mountable")

// Exists reports whether an entity is currently alive; callers typically
// back this with ecs.Registry.IsAlive.
type Exists func(ecs.EntityID) bool

// Manager tracks the current mount<->rider links. A mount can carry at
// most one rider and a rider can ride at most one mount at a time.
type Manager struct {
	mu      sync.Mutex
	riderOf map[ecs.EntityID]ecs.EntityID // mount -> rider
	mountOf map[ecs.EntityID]ecs.EntityID // rider -> mount
	exists  Exists
}

// NewManager returns an empty Manager, using exists to validate entity
// identities before linking.
func NewManager(exists Exists) *Manager {
	return &Manager{
		riderOf: make(map[ecs.EntityID]ecs.EntityID),
		mountOf: make(map[ecs.EntityID]ecs.EntityID),
		exists:  exists,
	}
}

// Mount links rider onto mount. Fails with ErrNotMountable if mount ==
// rider, if mount already carries a rider, if rider is already mounted on
// something, or if either side already holds the opposite role in another
// link (mount is itself riding something, or rider is itself carrying a
// rider), which also rules out cycles.
func (m *Manager) Mount(mount, rider ecs.EntityID) error {
	if mount == rider {
		return ErrNotMountable
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.exists(mount) || !m.exists(rider) {
		return ErrNoSuchEntity
	}
	if _, taken := m.riderOf[mount]; taken {
		return ErrNotMountable
	}
	if _, already := m.mountOf[rider]; already {
		return ErrNotMountable
	}
	if m.formsCycleLocked(mount, rider) {
		return ErrNotMountable
	}

	m.riderOf[mount] = rider
	m.mountOf[rider] = mount
	return nil
}

// formsCycleLocked reports whether either endpoint already holds the
// opposite role in another link: rider is itself being ridden by someone
// (it's acting as a mount) or mount is itself already riding something
// (it's acting as a rider). Refusing both keeps every link a single
// mount/rider pair, so no chain and therefore no cycle can form.
func (m *Manager) formsCycleLocked(mount, rider ecs.EntityID) bool {
	_, riderIsAlsoAMount := m.riderOf[rider]
	_, mountIsAlsoARider := m.mountOf[mount]
	return riderIsAlsoAMount || mountIsAlsoARider
}

// Dismount unlinks rider from whatever it's mounted on, returning the
// mount it was riding. A rider that isn't mounted returns ok=false.
func (m *Manager) Dismount(rider ecs.EntityID) (mount ecs.EntityID, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mount, ok = m.mountOf[rider]
	if !ok {
		return mount, false
	}
	delete(m.mountOf, rider)
	delete(m.riderOf, mount)
	return mount, true
}

// MountOf reports what entity rider is currently mounted on, if any.
func (m *Manager) MountOf(rider ecs.EntityID) (ecs.EntityID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mount, ok := m.mountOf[rider]
	return mount, ok
}

// RiderOf reports what entity is currently riding mount, if any.
func (m *Manager) RiderOf(mount ecs.EntityID) (ecs.EntityID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rider, ok := m.riderOf[mount]
	return rider, ok
}
