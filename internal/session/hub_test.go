package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ArcaneTable_Go/internal/domain"
)

func TestTryAddEnforcesSeatLimits(t *testing.T) {
	hub := NewHub()

	require.NoError(t, hub.TryAdd(newFakeConn(), MemberInfo{UserID: "dm1", Role: domain.RoleDM}))
	assert.ErrorIs(t, hub.TryAdd(newFakeConn(), MemberInfo{UserID: "dm2", Role: domain.RoleDM}), domain.ErrDMSeatTaken)

	for i := 0; i < domain.MaxPlayers; i++ {
		require.NoError(t, hub.TryAdd(newFakeConn(), MemberInfo{UserID: fmt.Sprintf("u%d", i), Role: domain.RolePlayer}))
	}
	assert.ErrorIs(t, hub.TryAdd(newFakeConn(), MemberInfo{UserID: "late", Role: domain.RolePlayer}), domain.ErrRoomFull)
	assert.Equal(t, domain.MaxSeatsTotal, hub.Len())
}

func TestTryAddPlayerSeatsFull(t *testing.T) {
	hub := NewHub()
	for i := 0; i < domain.MaxPlayers; i++ {
		require.NoError(t, hub.TryAdd(newFakeConn(), MemberInfo{UserID: fmt.Sprintf("u%d", i), Role: domain.RolePlayer}))
	}

	assert.ErrorIs(t, hub.TryAdd(newFakeConn(), MemberInfo{UserID: "late", Role: domain.RolePlayer}), domain.ErrPlayerSeatsFull)
	assert.NoError(t, hub.TryAdd(newFakeConn(), MemberInfo{UserID: "dm1", Role: domain.RoleDM}))
}

func TestTryAddRejectsUnknownRole(t *testing.T) {
	hub := NewHub()
	assert.ErrorIs(t, hub.TryAdd(newFakeConn(), MemberInfo{UserID: "u1", Role: "observer"}), domain.ErrInvalidRole)
	assert.Equal(t, 0, hub.Len())
}

// Joins racing for the last seats must never oversubscribe the room.
func TestTryAddConcurrentNeverOversubscribes(t *testing.T) {
	hub := NewHub()

	const contenders = 20
	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = hub.TryAdd(newFakeConn(), MemberInfo{UserID: fmt.Sprintf("u%d", i), Role: domain.RolePlayer})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, domain.MaxPlayers, hub.Len())
	assert.Equal(t, domain.MaxPlayers, hub.CountRole(domain.RolePlayer))
}
