// El mirror es el único dueño del estado cacheado de cada guild. Escribe
// solamente el loop del dispatcher; los reads (prune, comandos) pueden ser
// concurrentes, por eso RWMutex.
package mirror

import (
	"log"
	"sync"

	"github.com/vilgotf/voice-pruner/internal/domain"
)

type guildState struct {
	ownerID  string
	channels map[string]domain.Channel
	roles    map[string]domain.Role
	members  map[string]domain.Member
}

type Mirror struct {
	mu     sync.RWMutex
	guilds map[string]*guildState
}

func New() *Mirror {
	return &Mirror{guilds: map[string]*guildState{}}
}

// ApplySnapshot reemplaza todo el estado previo del guild (parcial o no).
func (m *Mirror) ApplySnapshot(snap domain.Snapshot) {
	g := &guildState{
		ownerID:  snap.OwnerID,
		channels: make(map[string]domain.Channel, len(snap.Channels)),
		roles:    make(map[string]domain.Role, len(snap.Roles)),
		members:  make(map[string]domain.Member, len(snap.Members)),
	}
	for _, ch := range snap.Channels {
		g.channels[ch.ID] = ch
	}
	for _, ro := range snap.Roles {
		g.roles[ro.ID] = ro
	}
	for _, me := range snap.Members {
		g.members[me.UserID] = me
	}

	m.mu.Lock()
	m.guilds[snap.GuildID] = g
	m.mu.Unlock()
}

// Apply muta el mirror para las entidades nombradas en el evento, siempre
// por reemplazo completo. Eventos de guilds desconocidos se loguean y se
// ignoran: durante el arranque son esperables y no deben tumbar el loop.
func (m *Mirror) Apply(ev domain.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.guilds[ev.EventGuildID()]; !ok {
		switch ev.(type) {
		case domain.GuildDelete:
			// nada que evictar
		default:
			log.Printf("mirror: evento para guild desconocido %s (se ignora)", ev.EventGuildID())
		}
		return
	}
	g := m.guilds[ev.EventGuildID()]

	switch e := ev.(type) {
	case domain.ChannelCreate:
		g.channels[e.Channel.ID] = e.Channel
	case domain.ChannelUpdate:
		g.channels[e.Channel.ID] = e.Channel
	case domain.ChannelDelete:
		delete(g.channels, e.ChannelID)
	case domain.RoleCreate:
		g.roles[e.Role.ID] = e.Role
	case domain.RoleUpdate:
		g.roles[e.Role.ID] = e.Role
	case domain.RoleDelete:
		delete(g.roles, e.RoleID)
	case domain.MemberUpdate:
		g.members[e.Member.UserID] = e.Member
	case domain.GuildDelete:
		delete(m.guilds, e.GuildID)
	}
}

// Evict saca un guild entero (bot kickeado / guild borrado).
func (m *Mirror) Evict(guildID string) {
	m.mu.Lock()
	delete(m.guilds, guildID)
	m.mu.Unlock()
}

func (m *Mirror) HasGuild(guildID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.guilds[guildID]
	return ok
}

func (m *Mirror) Channel(guildID, channelID string) (domain.Channel, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.guilds[guildID]
	if !ok {
		return domain.Channel{}, false
	}
	ch, ok := g.channels[channelID]
	return ch, ok
}

// VoiceChannels devuelve una copia de los canales de voz del guild.
func (m *Mirror) VoiceChannels(guildID string) []domain.Channel {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.guilds[guildID]
	if !ok {
		return nil
	}
	out := make([]domain.Channel, 0, len(g.channels))
	for _, ch := range g.channels {
		if ch.Type == domain.ChannelVoice {
			out = append(out, ch)
		}
	}
	return out
}

func (m *Mirror) Role(guildID, roleID string) (domain.Role, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.guilds[guildID]
	if !ok {
		return domain.Role{}, false
	}
	ro, ok := g.roles[roleID]
	return ro, ok
}

func (m *Mirror) Member(guildID, userID string) (domain.Member, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.guilds[guildID]
	if !ok {
		return domain.Member{}, false
	}
	me, ok := g.members[userID]
	return me, ok
}
