package mirror

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilgotf/voice-pruner/internal/domain"
)

func testSnapshot() domain.Snapshot {
	return domain.Snapshot{
		GuildID: "g1",
		OwnerID: "owner",
		Roles: []domain.Role{
			{ID: "g1", Name: "@everyone", Permissions: domain.Connect},
			{ID: "mod", Name: "mod", Permissions: domain.MoveMembers},
		},
		Channels: []domain.Channel{
			{ID: "vc1", GuildID: "g1", Name: "General", Type: domain.ChannelVoice},
			{ID: "txt", GuildID: "g1", Name: "chat", Type: domain.ChannelOther},
		},
		Members: []domain.Member{
			{UserID: "alice"},
			{UserID: "bob", Roles: []string{"mod"}},
		},
	}
}

func TestApplyUnknownGuildIsNoOp(t *testing.T) {
	m := New()

	m.Apply(domain.ChannelUpdate{Channel: domain.Channel{ID: "vc1", GuildID: "nope"}})

	assert.False(t, m.HasGuild("nope"))
	_, ok := m.Channel("nope", "vc1")
	assert.False(t, ok)
}

func TestSnapshotReplacesPartialState(t *testing.T) {
	m := New()
	m.ApplySnapshot(testSnapshot())
	m.Apply(domain.ChannelCreate{Channel: domain.Channel{ID: "vc2", GuildID: "g1", Type: domain.ChannelVoice}})

	// un snapshot nuevo pisa todo lo anterior
	snap := testSnapshot()
	snap.Channels = snap.Channels[:1]
	m.ApplySnapshot(snap)

	_, ok := m.Channel("g1", "vc2")
	assert.False(t, ok, "canal fuera del snapshot nuevo debe desaparecer")
	_, ok = m.Channel("g1", "vc1")
	assert.True(t, ok)
}

func TestApplyIsIdempotent(t *testing.T) {
	m := New()
	m.ApplySnapshot(testSnapshot())

	ev := domain.ChannelUpdate{Channel: domain.Channel{
		ID: "vc1", GuildID: "g1", Name: "Renamed", Type: domain.ChannelVoice,
		Overwrites: []domain.Overwrite{{ID: "mod", Kind: domain.OverwriteRole, Allow: domain.Connect}},
	}}
	m.Apply(ev)
	first, ok := m.Channel("g1", "vc1")
	require.True(t, ok)

	m.Apply(ev)
	second, ok := m.Channel("g1", "vc1")
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestApplyReplacesWholeEntity(t *testing.T) {
	m := New()
	m.ApplySnapshot(testSnapshot())

	// update sin overwrites: el canal queda sin overwrites, no se mergea
	m.Apply(domain.ChannelUpdate{Channel: domain.Channel{
		ID: "vc1", GuildID: "g1", Name: "General", Type: domain.ChannelVoice,
		Overwrites: []domain.Overwrite{{ID: "mod", Kind: domain.OverwriteRole, Deny: domain.Connect}},
	}})
	m.Apply(domain.ChannelUpdate{Channel: domain.Channel{
		ID: "vc1", GuildID: "g1", Name: "General", Type: domain.ChannelVoice,
	}})

	ch, ok := m.Channel("g1", "vc1")
	require.True(t, ok)
	assert.Empty(t, ch.Overwrites)
}

func TestDeletesAndEviction(t *testing.T) {
	m := New()
	m.ApplySnapshot(testSnapshot())

	m.Apply(domain.ChannelDelete{GuildID: "g1", ChannelID: "vc1"})
	_, ok := m.Channel("g1", "vc1")
	assert.False(t, ok)

	m.Apply(domain.RoleDelete{GuildID: "g1", RoleID: "mod"})
	_, ok = m.Role("g1", "mod")
	assert.False(t, ok)

	m.Apply(domain.GuildDelete{GuildID: "g1"})
	assert.False(t, m.HasGuild("g1"))
}

func TestVoiceChannelsFiltersByType(t *testing.T) {
	m := New()
	m.ApplySnapshot(testSnapshot())

	channels := m.VoiceChannels("g1")
	require.Len(t, channels, 1)
	assert.Equal(t, "vc1", channels[0].ID)
}

func TestMemberUpdateReplacesRoleSet(t *testing.T) {
	m := New()
	m.ApplySnapshot(testSnapshot())

	m.Apply(domain.MemberUpdate{GuildID: "g1", Member: domain.Member{UserID: "bob"}})
	me, ok := m.Member("g1", "bob")
	require.True(t, ok)
	assert.Empty(t, me.Roles)
}
