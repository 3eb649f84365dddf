// El dispatcher es el único consumidor del stream de eventos: un loop que
// aplica cada evento al mirror de forma síncrona (orden preservado, sin
// escrituras concurrentes) y dispara prunes en goroutines aparte.
package dispatch

import (
	"context"
	"log"
	"slices"
	"sync"

	"github.com/vilgotf/voice-pruner/internal/app/mirror"
	"github.com/vilgotf/voice-pruner/internal/app/service"
	"github.com/vilgotf/voice-pruner/internal/domain"
)

// Lo implementa service.PruneService
type Pruner interface {
	PruneChannel(ctx context.Context, guildID, channelID, roleID, requestedBy string) service.PruneResult
	PruneGuild(ctx context.Context, guildID, roleID, requestedBy string) service.PruneResult
}

// Lo implementa service.MonitorService
type Monitor interface {
	Exempt(ctx context.Context, guildID string) bool
}

// Subconjunto de service.VoiceAPI que necesita el loop
type Snapshotter interface {
	FetchGuildState(ctx context.Context, guildID string) (domain.Snapshot, error)
	MemberChannel(guildID, userID string) string
}

type guildPhase int

const (
	phaseUninitialized guildPhase = iota
	phaseSyncing
	phaseReady
)

// evento interno: terminó el snapshot de un guild
type syncComplete struct {
	guildID  string
	snapshot domain.Snapshot
	err      error
}

func (e syncComplete) EventGuildID() string { return e.guildID }

type Dispatcher struct {
	mirror  *mirror.Mirror
	monitor Monitor
	pruner  Pruner
	voice   Snapshotter

	events chan domain.Event
	done   chan struct{}
	phases map[string]guildPhase
	wg     sync.WaitGroup
}

func New(m *mirror.Mirror, monitor Monitor, pruner Pruner, voice Snapshotter) *Dispatcher {
	return &Dispatcher{
		mirror:  m,
		monitor: monitor,
		pruner:  pruner,
		voice:   voice,
		events:  make(chan domain.Event, 256),
		done:    make(chan struct{}),
		phases:  map[string]guildPhase{},
	}
}

// Push encola un evento para el loop. Después del shutdown los eventos
// nuevos se descartan.
func (d *Dispatcher) Push(ev domain.Event) {
	select {
	case d.events <- ev:
	case <-d.done:
	}
}

// Run consume eventos hasta que ctx se cancela; antes de volver deja de
// aceptar eventos nuevos y drena los prunes en vuelo (ningún disconnect
// queda a medias).
func (d *Dispatcher) Run(ctx context.Context) {
	log.Println("dispatcher: loop de eventos arriba")
	for {
		select {
		case <-ctx.Done():
			close(d.done)
			d.wg.Wait()
			log.Println("dispatcher: drenado, bajando")
			return
		case ev := <-d.events:
			d.handle(ev)
		}
	}
}

func (d *Dispatcher) handle(ev domain.Event) {
	guildID := ev.EventGuildID()

	switch e := ev.(type) {
	case domain.GuildCreate:
		// discord re-manda GuildCreate tras reconectar; re-sincronizamos
		// siempre, el snapshot pisa cualquier estado parcial
		d.phases[guildID] = phaseSyncing
		d.wg.Add(1)
		go d.sync(guildID)
		return

	case syncComplete:
		// el guild pudo ser evictado (GuildDelete) mientras el snapshot
		// estaba en vuelo: un snapshot huérfano no lo resucita
		if d.phases[guildID] != phaseSyncing {
			log.Printf("dispatcher: snapshot tardío de %s descartado", guildID)
			return
		}
		if e.err != nil {
			log.Printf("dispatcher: snapshot de %s falló: %v", guildID, e.err)
			d.phases[guildID] = phaseUninitialized
			return
		}
		d.mirror.ApplySnapshot(e.snapshot)
		d.phases[guildID] = phaseReady
		log.Printf("✅ guild %s sincronizado (%d canales, %d roles, %d miembros)",
			guildID, len(e.snapshot.Channels), len(e.snapshot.Roles), len(e.snapshot.Members))
		return

	case domain.GuildDelete:
		d.mirror.Evict(guildID)
		delete(d.phases, guildID)
		return
	}

	// guilds sin snapshot todavía: se descarta, el snapshot que viene va
	// a reflejar la verdad actual igual
	if d.phases[guildID] != phaseReady {
		return
	}

	relevant, trigger := d.classify(ev)
	d.mirror.Apply(ev)
	if relevant {
		d.wg.Add(1)
		go d.autoPrune(ev.EventGuildID(), trigger)
	}
}

// trigger describe qué re-chequear tras aplicar un evento.
type trigger struct {
	channelID string // "" => todo el guild
	roleID    string // filtro de rol para prunes guild-wide
}

// classify decide, ANTES de aplicar el evento, si cambia algo relevante
// para permisos. Updates que no tocan overwrites / permisos / set de roles
// mutan el mirror pero no disparan nada.
func (d *Dispatcher) classify(ev domain.Event) (bool, trigger) {
	switch e := ev.(type) {
	case domain.ChannelCreate:
		return true, trigger{channelID: e.Channel.ID}

	case domain.ChannelUpdate:
		// un cambio de tipo (stage -> voz) puede volver monitoreable un
		// canal con denies preexistentes, también cuenta
		if cur, ok := d.mirror.Channel(e.Channel.GuildID, e.Channel.ID); ok &&
			cur.Type == e.Channel.Type &&
			cur.ParentID == e.Channel.ParentID &&
			slices.Equal(cur.Overwrites, e.Channel.Overwrites) {
			return false, trigger{}
		}
		return true, trigger{channelID: e.Channel.ID}

	case domain.RoleUpdate:
		if cur, ok := d.mirror.Role(e.GuildID, e.Role.ID); ok &&
			cur.Permissions == e.Role.Permissions {
			return false, trigger{}
		}
		return true, trigger{roleID: e.Role.ID}

	case domain.RoleDelete:
		// un rol borrado puede afectar overwrites en muchos canales
		return true, trigger{}

	case domain.MemberUpdate:
		if cur, ok := d.mirror.Member(e.GuildID, e.Member.UserID); ok &&
			slices.Equal(cur.Roles, e.Member.Roles) {
			return false, trigger{}
		}
		// re-chequeamos solo el canal al que está conectado; si no está
		// en voz no hay nada que expulsar
		ch := d.voice.MemberChannel(e.GuildID, e.Member.UserID)
		if ch == "" {
			return false, trigger{}
		}
		return true, trigger{channelID: ch}
	}
	return false, trigger{}
}

func (d *Dispatcher) sync(guildID string) {
	defer d.wg.Done()
	snap, err := d.voice.FetchGuildState(context.Background(), guildID)
	d.Push(syncComplete{guildID: guildID, snapshot: snap, err: err})
}

func (d *Dispatcher) autoPrune(guildID string, t trigger) {
	defer d.wg.Done()
	ctx := context.Background()

	if d.monitor.Exempt(ctx, guildID) {
		return
	}

	var res service.PruneResult
	if t.channelID != "" {
		res = d.pruner.PruneChannel(ctx, guildID, t.channelID, t.roleID, "")
	} else {
		res = d.pruner.PruneGuild(ctx, guildID, t.roleID, "")
	}
	if res.Attempted > 0 {
		log.Printf("autoprune guild=%s channel=%q: attempted=%d removed=%d errors=%d",
			guildID, t.channelID, res.Attempted, res.Removed, len(res.Errors))
	}
}
