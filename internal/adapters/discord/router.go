package discord

import (
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/vilgotf/voice-pruner/internal/app/dispatch"
	"github.com/vilgotf/voice-pruner/internal/app/service"
	"github.com/vilgotf/voice-pruner/internal/domain"
)

type Router struct {
	s       *discordgo.Session
	guildID string // "" => comandos globales

	dispatcher *dispatch.Dispatcher
	monitor    *service.MonitorService
	prune      *service.PruneService
	policy     *service.PolicyService

	pruneCooldown *cooldown
}

func NewRouter(
	s *discordgo.Session,
	guildID string,
	dispatcher *dispatch.Dispatcher,
	monitor *service.MonitorService,
	prune *service.PruneService,
	policy *service.PolicyService,
) *Router {
	return &Router{
		s:             s,
		guildID:       guildID,
		dispatcher:    dispatcher,
		monitor:       monitor,
		prune:         prune,
		policy:        policy,
		pruneCooldown: newCooldown(15 * time.Second),
	}
}

// Register crea los slash commands (en el guild si hay uno configurado,
// globales si no).
func (r *Router) Register() error {
	appID := r.s.State.User.ID
	for _, cmd := range Commands {
		if _, err := r.s.ApplicationCommandCreate(appID, r.guildID, cmd); err != nil {
			return err
		}
	}
	return nil
}

// Unregister borra todos los comandos registrados (modo
// DELETE_SLASH_COMMANDS).
func (r *Router) Unregister() error {
	appID := r.s.State.User.ID
	cmds, err := r.s.ApplicationCommands(appID, r.guildID)
	if err != nil {
		return err
	}
	for _, cmd := range cmds {
		if err := r.s.ApplicationCommandDelete(appID, r.guildID, cmd.ID); err != nil {
			return err
		}
	}
	return nil
}

// Handlers registra los handlers del gateway. Los eventos de estado se
// traducen a variantes del dominio y van a la cola del dispatcher; acá no
// se decide nada.
func (r *Router) Handlers() {
	r.s.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic.Type != discordgo.InteractionApplicationCommand {
			return
		}
		r.handleSlashCommand(s, ic)
	})

	r.s.AddHandler(func(s *discordgo.Session, g *discordgo.GuildCreate) {
		r.dispatcher.Push(domain.GuildCreate{GuildID: g.ID})
	})
	r.s.AddHandler(func(s *discordgo.Session, g *discordgo.GuildDelete) {
		if g.Unavailable {
			// outage de discord, no nos echaron: el guild vuelve solo
			return
		}
		r.dispatcher.Push(domain.GuildDelete{GuildID: g.ID})
	})

	r.s.AddHandler(func(s *discordgo.Session, c *discordgo.ChannelCreate) {
		if c.GuildID != "" {
			r.dispatcher.Push(domain.ChannelCreate{Channel: mapChannel(c.Channel)})
		}
	})
	r.s.AddHandler(func(s *discordgo.Session, c *discordgo.ChannelUpdate) {
		if c.GuildID != "" {
			r.dispatcher.Push(domain.ChannelUpdate{Channel: mapChannel(c.Channel)})
		}
	})
	r.s.AddHandler(func(s *discordgo.Session, c *discordgo.ChannelDelete) {
		if c.GuildID != "" {
			r.dispatcher.Push(domain.ChannelDelete{GuildID: c.GuildID, ChannelID: c.ID})
		}
	})

	r.s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildRoleCreate) {
		r.dispatcher.Push(domain.RoleCreate{GuildID: e.GuildID, Role: mapRole(e.Role)})
	})
	r.s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildRoleUpdate) {
		r.dispatcher.Push(domain.RoleUpdate{GuildID: e.GuildID, Role: mapRole(e.Role)})
	})
	r.s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildRoleDelete) {
		r.dispatcher.Push(domain.RoleDelete{GuildID: e.GuildID, RoleID: e.RoleID})
	})

	r.s.AddHandler(func(s *discordgo.Session, e *discordgo.GuildMemberUpdate) {
		r.dispatcher.Push(domain.MemberUpdate{
			GuildID: e.GuildID,
			Member:  mapMember(e.Member),
		})
	})

	r.s.AddHandler(func(s *discordgo.Session, e *discordgo.Ready) {
		log.Printf("✅ ready: %d guilds", len(e.Guilds))
	})
}
