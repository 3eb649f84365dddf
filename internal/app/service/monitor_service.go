package service

import (
	"context"
	"errors"
	"log"
	"sort"

	"github.com/vilgotf/voice-pruner/internal/app/mirror"
	"github.com/vilgotf/voice-pruner/internal/domain"
	"github.com/vilgotf/voice-pruner/internal/infra/storage"
)

// ErrChannelNotFound: el canal no existe en el guild del que pregunta.
var ErrChannelNotFound = errors.New("channel not found")

type ListFilter string

const (
	ListAll         ListFilter = "all"
	ListMonitored   ListFilter = "monitored"
	ListUnmonitored ListFilter = "unmonitored"
)

type ChannelSummary struct {
	ID        string
	Name      string
	Monitored bool
}

// MonitorService decide qué canales vigilamos y si el bot está exento de
// actuar automáticamente en un guild.
type MonitorService struct {
	mirror *mirror.Mirror
	policy PolicyRepo
	botID  string
}

func NewMonitorService(m *mirror.Mirror, policy PolicyRepo, botID string) *MonitorService {
	return &MonitorService{mirror: m, policy: policy, botID: botID}
}

// Monitored: canal de voz donde el bot tiene MOVE_MEMBERS.
func (s *MonitorService) Monitored(guildID, channelID string) bool {
	ch, ok := s.mirror.Channel(guildID, channelID)
	if !ok || ch.Type != domain.ChannelVoice {
		return false
	}
	perms, ok := s.mirror.Effective(guildID, s.botID, channelID)
	return ok && perms.Has(domain.MoveMembers)
}

// Exempt: true si el auto-prune está apagado por policy o si el bot tiene
// el rol de exención (match exacto por nombre). Solo frena la reacción
// automática a eventos, nunca un /prune pedido por un operador.
func (s *MonitorService) Exempt(ctx context.Context, guildID string) bool {
	exemptRole := storage.DefaultExemptRole
	if s.policy != nil {
		pol, err := s.policy.Get(ctx, guildID)
		if err != nil {
			log.Printf("monitor: no pude leer policy de %s: %v (uso defaults)", guildID, err)
		} else {
			if !pol.AutopruneEnabled {
				return true
			}
			if pol.ExemptRoleName != "" {
				exemptRole = pol.ExemptRoleName
			}
		}
	}

	me, ok := s.mirror.Member(guildID, s.botID)
	if !ok {
		return false
	}
	for _, roleID := range me.Roles {
		if ro, ok := s.mirror.Role(guildID, roleID); ok && ro.Name == exemptRole {
			return true
		}
	}
	return false
}

// IsMonitored responde la consulta del usuario; NotFound si el canal no
// está en el mirror del guild.
func (s *MonitorService) IsMonitored(guildID, channelID string) (bool, error) {
	if _, ok := s.mirror.Channel(guildID, channelID); !ok {
		return false, ErrChannelNotFound
	}
	return s.Monitored(guildID, channelID), nil
}

// List devuelve los canales de voz del guild según filtro, ordenados por
// nombre para que la respuesta sea estable.
func (s *MonitorService) List(guildID string, filter ListFilter) []ChannelSummary {
	channels := s.mirror.VoiceChannels(guildID)
	out := make([]ChannelSummary, 0, len(channels))
	for _, ch := range channels {
		monitored := s.Monitored(guildID, ch.ID)
		switch filter {
		case ListMonitored:
			if !monitored {
				continue
			}
		case ListUnmonitored:
			if monitored {
				continue
			}
		}
		out = append(out, ChannelSummary{ID: ch.ID, Name: ch.Name, Monitored: monitored})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
