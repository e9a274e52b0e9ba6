package rooms_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/lobby-master/internal/rooms"
	"github.com/palemoky/lobby-master/internal/testutil"
)

func grantAccess(t *testing.T, r *rooms.RegisteredRoom, clientID string, data map[string]string) (*rooms.Access, error) {
	t.Helper()

	var (
		access *rooms.Access
		err    error
	)
	r.GetAccess(&testutil.SimpleClient{ID: clientID, Username: clientID}, data, func(a *rooms.Access, e error) {
		access, err = a, e
	})
	return access, err
}

func TestRegistry_RegisterAndDestroy(t *testing.T) {
	reg := rooms.NewRegistry()

	room := reg.Register(rooms.Options{Name: "game", RoomIP: "10.0.0.1", RoomPort: 7777})
	require.NotNil(t, room)
	assert.Equal(t, 1, room.ID)
	assert.Equal(t, 1, reg.Count())
	assert.Same(t, room, reg.GetRoom(room.ID))

	notified := 0
	room.OnDestroyed(func(r *rooms.RegisteredRoom) {
		assert.Same(t, room, r)
		notified++
	})

	reg.DestroyRoom(room.ID)
	reg.DestroyRoom(room.ID) // noop

	assert.Equal(t, 1, notified, "destroyed subscribers fire exactly once")
	assert.True(t, room.IsDestroyed())
	assert.Nil(t, reg.GetRoom(room.ID))
	assert.Equal(t, 0, reg.Count())
}

func TestRegisteredRoom_UnsubscribeStopsNotifications(t *testing.T) {
	reg := rooms.NewRegistry()
	room := reg.Register(rooms.Options{})

	notified := false
	unsub := room.OnDestroyed(func(*rooms.RegisteredRoom) { notified = true })
	unsub()
	unsub() // idempotent

	reg.DestroyRoom(room.ID)
	assert.False(t, notified)
}

func TestGetAccess_PasswordCheck(t *testing.T) {
	reg := rooms.NewRegistry()
	room := reg.Register(rooms.Options{
		Password:      "secret",
		AccessTimeout: time.Minute,
	})

	_, err := grantAccess(t, room, "p1", nil)
	assert.ErrorIs(t, err, rooms.ErrWrongPassword)

	_, err = grantAccess(t, room, "p1", map[string]string{"password": "nope"})
	assert.ErrorIs(t, err, rooms.ErrWrongPassword)

	access, err := grantAccess(t, room, "p1", map[string]string{"password": "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, access.Token)
	assert.Equal(t, room.ID, access.RoomID)
}

func TestGetAccess_PendingTokensCountAgainstCapacity(t *testing.T) {
	reg := rooms.NewRegistry()
	room := reg.Register(rooms.Options{
		MaxConnections: 2,
		AccessTimeout:  time.Minute,
	})

	_, err := grantAccess(t, room, "p1", nil)
	require.NoError(t, err)
	_, err = grantAccess(t, room, "p2", nil)
	require.NoError(t, err)

	_, err = grantAccess(t, room, "p3", nil)
	assert.ErrorIs(t, err, rooms.ErrRoomFull)
}

func TestGetAccess_ExpiredPendingTokensMakeRoom(t *testing.T) {
	reg := rooms.NewRegistry()
	room := reg.Register(rooms.Options{
		MaxConnections: 1,
		AccessTimeout:  10 * time.Millisecond,
	})

	stale, err := grantAccess(t, room, "p1", nil)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	// The expired pending token frees the slot, and can no longer be confirmed.
	_, err = grantAccess(t, room, "p2", nil)
	require.NoError(t, err)

	_, err = room.ConfirmAccess(stale.Token)
	assert.ErrorIs(t, err, rooms.ErrInvalidAccessToken)
}

func TestConfirmAccess_ConsumesToken(t *testing.T) {
	reg := rooms.NewRegistry()
	room := reg.Register(rooms.Options{AccessTimeout: time.Minute})

	access, err := grantAccess(t, room, "p1", nil)
	require.NoError(t, err)

	clientID, err := room.ConfirmAccess(access.Token)
	require.NoError(t, err)
	assert.Equal(t, "p1", clientID)

	_, err = room.ConfirmAccess(access.Token)
	assert.ErrorIs(t, err, rooms.ErrInvalidAccessToken)
}

func TestGetAccess_DestroyedRoom(t *testing.T) {
	reg := rooms.NewRegistry()
	room := reg.Register(rooms.Options{AccessTimeout: time.Minute})
	reg.DestroyRoom(room.ID)

	_, err := grantAccess(t, room, "p1", nil)
	assert.ErrorIs(t, err, rooms.ErrRoomDestroyed)
}

func TestRequestAccess_DirectAccessGate(t *testing.T) {
	reg := rooms.NewRegistry()
	room := reg.Register(rooms.Options{
		AllowUsersRequestAccess: false,
		AccessTimeout:           time.Minute,
	})

	var got error
	room.RequestAccess(&testutil.SimpleClient{ID: "p1"}, nil, func(a *rooms.Access, e error) {
		got = e
	})
	assert.ErrorIs(t, got, rooms.ErrDirectAccessDenied)

	open := reg.Register(rooms.Options{
		AllowUsersRequestAccess: true,
		AccessTimeout:           time.Minute,
	})

	var access *rooms.Access
	open.RequestAccess(&testutil.SimpleClient{ID: "p1"}, nil, func(a *rooms.Access, e error) {
		require.NoError(t, e)
		access = a
	})
	assert.NotNil(t, access)
}
