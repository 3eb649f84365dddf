package domain

// Event es la variante tipada que consume el dispatcher. El adapter de
// discord traduce los payloads del gateway a estas structs; aguas abajo
// nadie vuelve a mirar el wire format.
type Event interface {
	EventGuildID() string
}

type ChannelCreate struct{ Channel Channel }

type ChannelUpdate struct{ Channel Channel }

type ChannelDelete struct {
	GuildID   string
	ChannelID string
}

type RoleCreate struct {
	GuildID string
	Role    Role
}

type RoleUpdate struct {
	GuildID string
	Role    Role
}

type RoleDelete struct {
	GuildID string
	RoleID  string
}

// MemberUpdate trae el set de roles completo (replace, no merge).
type MemberUpdate struct {
	GuildID string
	Member  Member
}

// GuildCreate no trae payload: dispara el snapshot por REST.
type GuildCreate struct{ GuildID string }

type GuildDelete struct{ GuildID string }

func (e ChannelCreate) EventGuildID() string { return e.Channel.GuildID }
func (e ChannelUpdate) EventGuildID() string { return e.Channel.GuildID }
func (e ChannelDelete) EventGuildID() string { return e.GuildID }
func (e RoleCreate) EventGuildID() string    { return e.GuildID }
func (e RoleUpdate) EventGuildID() string    { return e.GuildID }
func (e RoleDelete) EventGuildID() string    { return e.GuildID }
func (e MemberUpdate) EventGuildID() string  { return e.GuildID }
func (e GuildCreate) EventGuildID() string   { return e.GuildID }
func (e GuildDelete) EventGuildID() string   { return e.GuildID }
