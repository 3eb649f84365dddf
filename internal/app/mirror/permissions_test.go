package mirror

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilgotf/voice-pruner/internal/domain"
)

// arma un guild con categoría + canal de voz y lo que pida cada test
func permGuild(channelOverwrites, categoryOverwrites []domain.Overwrite, roles []domain.Role, members []domain.Member) *Mirror {
	m := New()
	m.ApplySnapshot(domain.Snapshot{
		GuildID: "g1",
		OwnerID: "owner",
		Roles:   append([]domain.Role{{ID: "g1", Name: "@everyone", Permissions: domain.Connect}}, roles...),
		Channels: []domain.Channel{
			{ID: "cat", GuildID: "g1", Type: domain.ChannelCategory, Overwrites: categoryOverwrites},
			{ID: "vc", GuildID: "g1", Type: domain.ChannelVoice, ParentID: "cat", Overwrites: channelOverwrites},
		},
		Members: append([]domain.Member{{UserID: "owner"}}, members...),
	})
	return m
}

func TestBaseIsUnionOfRoles(t *testing.T) {
	m := permGuild(nil, nil,
		[]domain.Role{{ID: "mover", Permissions: domain.MoveMembers}},
		[]domain.Member{
			{UserID: "plain"},
			{UserID: "mod", Roles: []string{"mover"}},
		})

	perms, ok := m.Effective("g1", "plain", "vc")
	require.True(t, ok)
	assert.True(t, perms.Has(domain.Connect), "everyone da CONNECT")
	assert.False(t, perms.Has(domain.MoveMembers))

	perms, ok = m.Effective("g1", "mod", "vc")
	require.True(t, ok)
	assert.True(t, perms.Has(domain.Connect|domain.MoveMembers), "unión de roles")
}

func TestOwnerAndAdministratorShortCircuit(t *testing.T) {
	deny := []domain.Overwrite{{ID: "g1", Kind: domain.OverwriteRole, Deny: domain.Connect}}
	m := permGuild(deny, nil,
		[]domain.Role{{ID: "admin", Permissions: domain.Administrator}},
		[]domain.Member{{UserID: "boss", Roles: []string{"admin"}}})

	perms, ok := m.Effective("g1", "owner", "vc")
	require.True(t, ok)
	assert.True(t, perms.Has(domain.Connect), "owner ignora overwrites")

	perms, ok = m.Effective("g1", "boss", "vc")
	require.True(t, ok)
	assert.True(t, perms.Has(domain.Connect), "administrator ignora overwrites")
}

func TestEveryoneOverwriteDeniesConnect(t *testing.T) {
	m := permGuild(
		[]domain.Overwrite{{ID: "g1", Kind: domain.OverwriteRole, Deny: domain.Connect}},
		nil, nil,
		[]domain.Member{{UserID: "alice"}})

	perms, ok := m.Effective("g1", "alice", "vc")
	require.True(t, ok)
	assert.False(t, perms.Has(domain.Connect))
}

func TestRoleOverwriteRevertsEveryoneOverwrite(t *testing.T) {
	m := permGuild(
		[]domain.Overwrite{
			{ID: "g1", Kind: domain.OverwriteRole, Deny: domain.Connect},
			{ID: "vip", Kind: domain.OverwriteRole, Allow: domain.Connect},
		},
		nil,
		[]domain.Role{{ID: "vip"}},
		[]domain.Member{{UserID: "alice", Roles: []string{"vip"}}})

	perms, ok := m.Effective("g1", "alice", "vc")
	require.True(t, ok)
	assert.True(t, perms.Has(domain.Connect), "allow de rol explícito pisa el overwrite de everyone")
}

func TestRoleDenyBeatsOtherRoleAllow(t *testing.T) {
	// deny explícito no puede ser revertido por el allow de otro rol en
	// el mismo paso, para cada bit
	m := permGuild(
		[]domain.Overwrite{
			{ID: "a", Kind: domain.OverwriteRole, Allow: domain.Connect | domain.MoveMembers},
			{ID: "b", Kind: domain.OverwriteRole, Deny: domain.Connect},
		},
		nil,
		[]domain.Role{{ID: "a"}, {ID: "b"}},
		[]domain.Member{{UserID: "alice", Roles: []string{"a", "b"}}})

	perms, ok := m.Effective("g1", "alice", "vc")
	require.True(t, ok)
	assert.False(t, perms.Has(domain.Connect), "deny gana sobre allow en el mismo bit")
	assert.True(t, perms.Has(domain.MoveMembers), "bits no denegados sobreviven")
}

func TestMemberOverwriteBeatsRoleOverwrites(t *testing.T) {
	m := permGuild(
		[]domain.Overwrite{
			{ID: "banned", Kind: domain.OverwriteRole, Deny: domain.Connect},
			{ID: "alice", Kind: domain.OverwriteMember, Allow: domain.Connect},
			{ID: "bob", Kind: domain.OverwriteMember, Deny: domain.Connect},
		},
		nil,
		[]domain.Role{{ID: "banned"}, {ID: "grant", Permissions: domain.Connect}},
		[]domain.Member{
			{UserID: "alice", Roles: []string{"banned"}},
			{UserID: "bob", Roles: []string{"grant"}},
		})

	perms, ok := m.Effective("g1", "alice", "vc")
	require.True(t, ok)
	assert.True(t, perms.Has(domain.Connect), "allow de miembro pisa deny de rol")

	perms, ok = m.Effective("g1", "bob", "vc")
	require.True(t, ok)
	assert.False(t, perms.Has(domain.Connect), "deny de miembro pisa allow de rol")
}

func TestCategoryOverwritesApplyFirst(t *testing.T) {
	// la categoría niega CONNECT para everyone; el canal lo devuelve a
	// un rol: el nivel canal pisa al nivel categoría
	m := permGuild(
		[]domain.Overwrite{{ID: "vip", Kind: domain.OverwriteRole, Allow: domain.Connect}},
		[]domain.Overwrite{{ID: "g1", Kind: domain.OverwriteRole, Deny: domain.Connect}},
		[]domain.Role{{ID: "vip"}},
		[]domain.Member{
			{UserID: "alice", Roles: []string{"vip"}},
			{UserID: "bob"},
		})

	perms, ok := m.Effective("g1", "alice", "vc")
	require.True(t, ok)
	assert.True(t, perms.Has(domain.Connect))

	perms, ok = m.Effective("g1", "bob", "vc")
	require.True(t, ok)
	assert.False(t, perms.Has(domain.Connect), "deny de categoría se hereda")
}

func TestEffectiveMissingEntities(t *testing.T) {
	m := permGuild(nil, nil, nil, []domain.Member{{UserID: "alice"}})

	_, ok := m.Effective("g1", "ghost", "vc")
	assert.False(t, ok)
	_, ok = m.Effective("g1", "alice", "ghost")
	assert.False(t, ok)
	_, ok = m.Effective("ghost", "alice", "vc")
	assert.False(t, ok)
}
