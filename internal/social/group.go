// Package social implements group membership and the chat-typed result
// messages its mutating commands echo back to the caller, grounded on
// the group invite/accept/kick/leader-transfer flow.
package social

import (
	"sync"

	"github.com/ashfall-games/worldcore/internal/ecs"
)

// GroupID identifies one group of entities.
type GroupID uint64

// Group is a leader plus its members (the leader is always also a member).
type Group struct {
	ID      GroupID
	Leader  ecs.EntityID
	Members map[ecs.EntityID]struct{}
}

// Feedback is a chat-typed result message a command echoes back to one
// entity, matching the "commands with explicit feedback echo a chat-typed
// result message" contract — invalid input elsewhere is dropped silently,
// but group/kick/leader-transfer always tell the caller what happened.
type Feedback struct {
	Target ecs.EntityID
	Text   string
}

// Manager owns all groups, pending invites, and group membership lookup.
type Manager struct {
	mu       sync.Mutex
	groups   map[GroupID]*Group
	memberOf map[ecs.EntityID]GroupID
	invites  map[ecs.EntityID]ecs.EntityID // invitee -> inviter
	nextID   GroupID
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{
		groups:   make(map[GroupID]*Group),
		memberOf: make(map[ecs.EntityID]GroupID),
		invites:  make(map[ecs.EntityID]ecs.EntityID),
	}
}

// GroupOf reports the group an entity belongs to, if any.
func (m *Manager) GroupOf(entity ecs.EntityID) (*Group, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.memberOf[entity]
	if !ok {
		return nil, false
	}
	return m.groups[id], true
}

// Invite records a pending invite from inviter to invitee. A second invite
// to an entity that already has one pending fails without clobbering the
// first.
func (m *Manager) Invite(inviter, invitee ecs.EntityID) []Feedback {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, already := m.invites[invitee]; already {
		return []Feedback{{inviter, "Invite failed target already has a pending invite"}}
	}
	m.invites[invitee] = inviter
	return []Feedback{{invitee, "You have been invited to a group"}}
}

// Accept consumes invitee's pending invite (if any), joining inviter's
// existing group or forming a new one with inviter as leader.
func (m *Manager) Accept(invitee ecs.EntityID) []Feedback {
	m.mu.Lock()
	defer m.mu.Unlock()
	inviter, ok := m.invites[invitee]
	if !ok {
		return nil
	}
	delete(m.invites, invitee)

	gid, hasGroup := m.memberOf[inviter]
	var g *Group
	if hasGroup {
		g = m.groups[gid]
	} else {
		m.nextID++
		gid = m.nextID
		g = &Group{ID: gid, Leader: inviter, Members: map[ecs.EntityID]struct{}{inviter: {}}}
		m.groups[gid] = g
		m.memberOf[inviter] = gid
	}
	g.Members[invitee] = struct{}{}
	m.memberOf[invitee] = gid
	return []Feedback{{invitee, "Joined group"}, {inviter, "Group invite accepted"}}
}

// Reject discards invitee's pending invite and informs the inviter.
func (m *Manager) Reject(invitee ecs.EntityID) []Feedback {
	m.mu.Lock()
	defer m.mu.Unlock()
	inviter, ok := m.invites[invitee]
	if !ok {
		return nil
	}
	delete(m.invites, invitee)
	return []Feedback{{inviter, "Invite rejected"}}
}

// Leave removes member from its group, disbanding the group if it empties
// and promoting the next remaining member to leader if the leader left.
func (m *Manager) Leave(member ecs.EntityID) []Feedback {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(member)
}

func (m *Manager) removeLocked(member ecs.EntityID) []Feedback {
	gid, ok := m.memberOf[member]
	if !ok {
		return nil
	}
	g := m.groups[gid]
	delete(g.Members, member)
	delete(m.memberOf, member)

	if len(g.Members) == 0 {
		delete(m.groups, gid)
		return nil
	}
	if g.Leader == member {
		for next := range g.Members {
			g.Leader = next
			break
		}
	}
	return nil
}

// Kick removes target from kicker's group; kicker must be that group's
// leader or the kick fails with explicit feedback to the kicker.
func (m *Manager) Kick(kicker, target ecs.EntityID) []Feedback {
	m.mu.Lock()
	defer m.mu.Unlock()

	gid, ok := m.memberOf[target]
	if !ok {
		return []Feedback{{kicker, "Kick failed: your target is not in a group"}}
	}
	g := m.groups[gid]
	if g.Leader != kicker {
		return []Feedback{{kicker, "Kick failed: you are not the leader of the target's group"}}
	}
	m.removeLocked(target)
	return []Feedback{{target, "The group leader kicked you"}, {kicker, "Kick complete"}}
}

// AssignLeader transfers leadership of target's group to target; assigner
// must already be that group's leader.
func (m *Manager) AssignLeader(assigner, target ecs.EntityID) []Feedback {
	m.mu.Lock()
	defer m.mu.Unlock()

	gid, ok := m.memberOf[target]
	if !ok {
		return []Feedback{{assigner, "Leadership transfer failed, target does not exist"}}
	}
	g := m.groups[gid]
	if g.Leader != assigner {
		return []Feedback{{assigner, "Leadership transfer failed: you are not the leader"}}
	}
	g.Leader = target
	return []Feedback{{target, "You are now the group leader"}, {assigner, "Leadership transferred"}}
}
