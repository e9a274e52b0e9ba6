package lobby

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeam_CapacityAndPredicate(t *testing.T) {
	team := NewTeam("red", 1, 2)

	m1 := NewMember("a", nil)
	m2 := NewMember("b", nil)
	m3 := NewMember("c", nil)

	require.True(t, team.AddMember(m1))
	require.True(t, team.AddMember(m2))
	assert.Same(t, team, m1.Team)

	// Full team accepts nobody.
	assert.False(t, team.CanAccept(m3))
	assert.False(t, team.AddMember(m3))
	assert.Equal(t, 2, team.PlayerCount())
}

func TestTeam_CanAddPlayerPredicate(t *testing.T) {
	team := NewTeam("vip", 0, 4)
	team.CanAddPlayer = func(m *Member) bool { return m.Username != "banned" }

	assert.True(t, team.AddMember(NewMember("ok", nil)))
	assert.False(t, team.AddMember(NewMember("banned", nil)))
}

func TestTeam_RemoveMemberKeepsOrder(t *testing.T) {
	team := NewTeam("red", 0, 4)

	a := NewMember("a", nil)
	b := NewMember("b", nil)
	c := NewMember("c", nil)
	for _, m := range []*Member{a, b, c} {
		require.True(t, team.AddMember(m))
	}

	team.RemoveMember(b)
	assert.Nil(t, b.Team)

	members := team.Members()
	require.Len(t, members, 2)
	assert.Equal(t, "a", members[0].Username)
	assert.Equal(t, "c", members[1].Username)

	// Removing a stranger is a noop.
	team.RemoveMember(NewMember("stranger", nil))
	assert.Equal(t, 2, team.PlayerCount())
}

func TestTeam_GenerateData(t *testing.T) {
	team := NewTeam("red", 1, 3)
	data := team.GenerateData()

	assert.Equal(t, "red", data.Name)
	assert.Equal(t, 1, data.MinPlayers)
	assert.Equal(t, 3, data.MaxPlayers)
}
