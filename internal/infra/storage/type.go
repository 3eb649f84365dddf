package storage

import "time"

// DefaultExemptRole: si el bot tiene este rol en el guild, el auto-prune
// queda suspendido (los /prune manuales siguen andando).
const DefaultExemptRole = "no-auto-prune"

type GuildPolicy struct {
	GuildID              string
	AutopruneEnabled     bool
	ExemptRoleName       string
	CreatedAt, UpdatedAt time.Time
}

// Para updates parciales desde /policy set
type GuildPolicyUpdate struct {
	AutopruneEnabled *bool
	ExemptRoleName   *string
}

// PruneLogEntry es una fila de auditoría por invocación de prune.
type PruneLogEntry struct {
	GuildID     string
	ChannelID   string
	RoleFilter  string // "" si no hubo filtro
	RequestedBy string // "" si fue automático (evento)
	Attempted   int
	Removed     int
	ErroredIDs  []string
	CreatedAt   time.Time
}
