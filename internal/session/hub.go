package session

import (
	"sync"

	"github.com/osse101/ArcaneTable_Go/internal/domain"
	"github.com/osse101/ArcaneTable_Go/internal/metrics"
)

// MemberInfo is the wire projection of one seated connection.
type MemberInfo struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

type member struct {
	conn Conn
	info MemberInfo
}

// Hub tracks the live connections of one room and fans messages out to
// them. Broadcast is best-effort: a failed send is counted and skipped, the
// read loop of the broken connection handles its own teardown.
type Hub struct {
	mu      sync.Mutex
	members []*member
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{}
}

// TryAdd seats a connection if a seat for its role remains. The capacity
// check and the insert happen under one lock so concurrent joins racing for
// the last seat cannot oversubscribe the room. Join order is preserved for
// member listings.
func (h *Hub) TryAdd(conn Conn, info MemberInfo) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.members) >= domain.MaxSeatsTotal {
		return domain.ErrRoomFull
	}
	switch info.Role {
	case domain.RoleDM:
		if h.countRoleLocked(domain.RoleDM) >= domain.MaxDMs {
			return domain.ErrDMSeatTaken
		}
	case domain.RolePlayer:
		if h.countRoleLocked(domain.RolePlayer) >= domain.MaxPlayers {
			return domain.ErrPlayerSeatsFull
		}
	default:
		return domain.ErrInvalidRole
	}

	h.members = append(h.members, &member{conn: conn, info: info})
	return nil
}

// Remove unseats a connection. Returns false when the connection was not
// seated.
func (h *Hub) Remove(conn Conn) (MemberInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, m := range h.members {
		if m.conn == conn {
			h.members = append(h.members[:i], h.members[i+1:]...)
			return m.info, true
		}
	}
	return MemberInfo{}, false
}

// Members lists seated connections in join order.
func (h *Hub) Members() []MemberInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]MemberInfo, 0, len(h.members))
	for _, m := range h.members {
		out = append(out, m.info)
	}
	return out
}

// CountRole returns how many seated connections hold the role.
func (h *Hub) CountRole(role string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.countRoleLocked(role)
}

func (h *Hub) countRoleLocked(role string) int {
	n := 0
	for _, m := range h.members {
		if m.info.Role == role {
			n++
		}
	}
	return n
}

// Len returns the number of seated connections.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.members)
}

// Broadcast sends v to every seated connection except exclude (which may be
// nil). The member list is snapshotted first so sends happen outside the hub
// lock.
func (h *Hub) Broadcast(v any, exclude Conn) {
	h.mu.Lock()
	conns := make([]Conn, 0, len(h.members))
	for _, m := range h.members {
		if m.conn != exclude {
			conns = append(conns, m.conn)
		}
	}
	h.mu.Unlock()

	for _, c := range conns {
		if err := c.Send(v); err != nil {
			metrics.BroadcastSendFailures.Inc()
		}
	}
}

// BroadcastEach computes a per-recipient payload and sends it. Used where
// visibility projection differs by viewer. A nil payload skips the
// recipient.
func (h *Hub) BroadcastEach(build func(info MemberInfo) any) {
	h.mu.Lock()
	snapshot := make([]*member, len(h.members))
	copy(snapshot, h.members)
	h.mu.Unlock()

	for _, m := range snapshot {
		v := build(m.info)
		if v == nil {
			continue
		}
		if err := m.conn.Send(v); err != nil {
			metrics.BroadcastSendFailures.Inc()
		}
	}
}

// NameOf resolves a seated user's display name.
func (h *Hub) NameOf(userID string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, m := range h.members {
		if m.info.UserID == userID {
			return m.info.Name, true
		}
	}
	return "", false
}

// DMCount is a convenience for admission control.
func (h *Hub) DMCount() int { return h.CountRole(domain.RoleDM) }
