package service

import (
	"context"
	"errors"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vilgotf/voice-pruner/internal/app/mirror"
	"github.com/vilgotf/voice-pruner/internal/domain"
	"github.com/vilgotf/voice-pruner/internal/infra/storage"
)

// Cuántos disconnects lanzamos en paralelo dentro de un prune.
const maxConcurrentRemovals = 4

type PruneErrorKind string

const (
	PruneForbidden PruneErrorKind = "forbidden"
	PruneTransient PruneErrorKind = "transient"
)

type PruneError struct {
	UserID string
	Kind   PruneErrorKind
	Err    error
}

// PruneResult agrega los resultados por miembro de una invocación.
// Los fallos parciales se reportan acá, nunca como error del método.
type PruneResult struct {
	Attempted int
	Removed   int
	Errors    []PruneError
}

func (r *PruneResult) merge(other PruneResult) {
	r.Attempted += other.Attempted
	r.Removed += other.Removed
	r.Errors = append(r.Errors, other.Errors...)
}

// PruneService expulsa de canales monitoreados a los miembros conectados
// que no tienen CONNECT efectivo.
type PruneService struct {
	mirror  *mirror.Mirror
	monitor *MonitorService
	voice   VoiceAPI
	audit   PruneLogRepo // opcional
}

func NewPruneService(m *mirror.Mirror, monitor *MonitorService, voice VoiceAPI, audit PruneLogRepo) *PruneService {
	return &PruneService{mirror: m, monitor: monitor, voice: voice, audit: audit}
}

// PruneChannel revisa un canal. roleID restringe a miembros con ese rol
// ("" = todos; el rol everyone, ID == guildID, matchea a cualquiera).
// requestedBy queda en la auditoría; "" si el trigger fue un evento.
//
// Canal borrado, no-voz o no monitoreado => resultado vacío sin llamadas
// remotas.
func (s *PruneService) PruneChannel(ctx context.Context, guildID, channelID, roleID, requestedBy string) PruneResult {
	var res PruneResult
	if !s.monitor.Monitored(guildID, channelID) {
		return res
	}

	connected, err := s.voice.VoiceConnections(guildID, channelID)
	if err != nil {
		log.Printf("prune: no pude leer voice states de %s: %v", channelID, err)
		return res
	}
	if len(connected) == 0 {
		return res
	}

	var targets []string
	for _, userID := range connected {
		if roleID != "" && !s.memberHasRole(guildID, userID, roleID) {
			continue
		}
		perms, ok := s.mirror.Effective(guildID, userID, channelID)
		if !ok {
			// miembro o canal ya no está en el mirror: no-op
			continue
		}
		if !perms.Has(domain.Connect) {
			targets = append(targets, userID)
		}
	}

	res = s.remove(ctx, guildID, targets)
	s.record(ctx, storage.PruneLogEntry{
		GuildID:     guildID,
		ChannelID:   channelID,
		RoleFilter:  roleID,
		RequestedBy: requestedBy,
		Attempted:   res.Attempted,
		Removed:     res.Removed,
		ErroredIDs:  erroredIDs(res.Errors),
	})
	return res
}

// PruneGuild revisa todos los canales de voz monitoreados del guild.
func (s *PruneService) PruneGuild(ctx context.Context, guildID, roleID, requestedBy string) PruneResult {
	var res PruneResult
	for _, ch := range s.mirror.VoiceChannels(guildID) {
		res.merge(s.PruneChannel(ctx, guildID, ch.ID, roleID, requestedBy))
	}
	return res
}

func (s *PruneService) memberHasRole(guildID, userID, roleID string) bool {
	if roleID == guildID {
		// everyone: lo tiene todo el mundo
		return true
	}
	me, ok := s.mirror.Member(guildID, userID)
	if !ok {
		return false
	}
	for _, id := range me.Roles {
		if id == roleID {
			return true
		}
	}
	return false
}

// remove ejecuta los disconnects con concurrencia acotada y junta los
// resultados antes de devolver el agregado.
func (s *PruneService) remove(ctx context.Context, guildID string, targets []string) PruneResult {
	res := PruneResult{Attempted: len(targets)}
	if len(targets) == 0 {
		return res
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRemovals)

	for _, userID := range targets {
		userID := userID
		g.Go(func() error {
			err := s.voice.DisconnectMember(ctx, guildID, userID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil, errors.Is(err, ErrNotConnected):
				// ya desconectado cuenta como éxito: el estado
				// deseado se cumplió igual
				res.Removed++
			case errors.Is(err, ErrForbidden):
				res.Errors = append(res.Errors, PruneError{UserID: userID, Kind: PruneForbidden, Err: err})
			default:
				// transitorio: se reporta, no se reintenta acá; el
				// próximo evento que toque el canal lo re-evalúa
				res.Errors = append(res.Errors, PruneError{UserID: userID, Kind: PruneTransient, Err: err})
			}
			return nil
		})
	}
	_ = g.Wait()
	return res
}

func (s *PruneService) record(ctx context.Context, e storage.PruneLogEntry) {
	if s.audit == nil || e.Attempted == 0 {
		return
	}
	if err := s.audit.Insert(ctx, e); err != nil {
		log.Printf("prune: no pude guardar auditoría: %v", err)
	}
}

func erroredIDs(errs []PruneError) []string {
	ids := make([]string, 0, len(errs))
	for _, e := range errs {
		ids = append(ids, e.UserID)
	}
	return ids
}
