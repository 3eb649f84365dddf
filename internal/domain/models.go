package domain

// Capabilities es un set de bits de permisos de Discord.
type Capabilities int64

// Bits que nos interesan (valores del API de Discord).
const (
	Administrator Capabilities = 1 << 3
	Connect       Capabilities = 1 << 20
	MoveMembers   Capabilities = 1 << 24
)

// AllCapabilities: owner / administrator tienen todo.
const AllCapabilities = Capabilities(^uint64(0) >> 1)

func (c Capabilities) Has(bits Capabilities) bool { return c&bits == bits }

type ChannelType int

const (
	ChannelOther ChannelType = iota
	ChannelVoice
	ChannelCategory
)

// OverwriteKind distingue a quién aplica un overwrite.
type OverwriteKind int

const (
	OverwriteRole OverwriteKind = iota
	OverwriteMember
)

// Overwrite es una excepción allow/deny sobre un canal para un rol o miembro.
type Overwrite struct {
	ID    string
	Kind  OverwriteKind
	Allow Capabilities
	Deny  Capabilities
}

type Channel struct {
	ID         string
	GuildID    string
	Name       string
	Type       ChannelType
	ParentID   string // categoría, "" si no tiene
	Overwrites []Overwrite
}

type Role struct {
	ID          string
	Name        string
	Position    int
	Permissions Capabilities
}

// Member: el set de roles NO incluye el rol everyone (igual que el API).
type Member struct {
	UserID string
	Roles  []string
}

// Snapshot es el estado completo de un guild traído por REST.
type Snapshot struct {
	GuildID  string
	OwnerID  string
	Channels []Channel
	Roles    []Role
	Members  []Member
}
