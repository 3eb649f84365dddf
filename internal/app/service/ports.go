package service

import (
	"context"
	"errors"

	"github.com/vilgotf/voice-pruner/internal/domain"
	"github.com/vilgotf/voice-pruner/internal/infra/storage"
)

// Resultados tipados de un disconnect individual.
var (
	// ErrNotConnected: el miembro ya no estaba en voz. Para nosotros es
	// éxito, el estado deseado ya se cumplió.
	ErrNotConnected = errors.New("member not connected")
	// ErrForbidden: perdimos MOVE_MEMBERS entre la decisión y la acción.
	ErrForbidden = errors.New("missing permission")
)

// Lo implementa internal/adapters/discord.Gateway
type VoiceAPI interface {
	// Snapshot completo por REST, una vez por guild al sincronizar.
	FetchGuildState(ctx context.Context, guildID string) (domain.Snapshot, error)
	// Miembros conectados ahora mismo al canal. Siempre en vivo, nunca
	// del mirror: decidir sobre conectividad vieja expulsa gente mal.
	VoiceConnections(guildID, channelID string) ([]string, error)
	// Canal de voz al que está conectado el miembro, "" si ninguno.
	MemberChannel(guildID, userID string) string
	// Devuelve nil, ErrNotConnected, ErrForbidden o un error transitorio.
	DisconnectMember(ctx context.Context, guildID, userID string) error
}

// Lo implementa internal/infra/storage.PolicyRepo
type PolicyRepo interface {
	Get(ctx context.Context, guildID string) (storage.GuildPolicy, error)
	Update(ctx context.Context, guildID string, u storage.GuildPolicyUpdate) (storage.GuildPolicy, error)
}

// Lo implementa internal/infra/storage.PruneLogRepo
type PruneLogRepo interface {
	Insert(ctx context.Context, e storage.PruneLogEntry) error
}
