package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/vilgotf/voice-pruner/internal/app/service"
	"github.com/vilgotf/voice-pruner/internal/domain"
)

// código JSON de discord: "Target user is not connected to voice"
const jsonCodeNotInVoice = 40032

// Gateway implementa service.VoiceAPI sobre la sesión de discordgo: REST
// para snapshot y disconnects, el voice-state tracking de la sesión para
// conectividad en vivo.
type Gateway struct {
	s *discordgo.Session
}

func NewGateway(s *discordgo.Session) *Gateway { return &Gateway{s: s} }

func (g *Gateway) FetchGuildState(ctx context.Context, guildID string) (domain.Snapshot, error) {
	guild, err := g.s.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("fetch guild %s: %w", guildID, err)
	}
	channels, err := g.s.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("fetch channels %s: %w", guildID, err)
	}

	snap := domain.Snapshot{
		GuildID: guildID,
		OwnerID: guild.OwnerID,
	}
	for _, ro := range guild.Roles {
		snap.Roles = append(snap.Roles, mapRole(ro))
	}
	for _, ch := range channels {
		snap.Channels = append(snap.Channels, mapChannel(ch))
	}

	// miembros paginados de a 1000
	after := ""
	for {
		members, err := g.s.GuildMembers(guildID, after, 1000, discordgo.WithContext(ctx))
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("fetch members %s: %w", guildID, err)
		}
		if len(members) == 0 {
			break
		}
		for _, me := range members {
			snap.Members = append(snap.Members, mapMember(me))
		}
		after = members[len(members)-1].User.ID
		if len(members) < 1000 {
			break
		}
	}
	return snap, nil
}

func (g *Gateway) VoiceConnections(guildID, channelID string) ([]string, error) {
	guild, err := g.s.State.Guild(guildID)
	if err != nil {
		return nil, err
	}

	g.s.State.RLock()
	defer g.s.State.RUnlock()
	var users []string
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID == channelID {
			users = append(users, vs.UserID)
		}
	}
	return users, nil
}

func (g *Gateway) MemberChannel(guildID, userID string) string {
	vs, err := g.s.State.VoiceState(guildID, userID)
	if err != nil || vs == nil {
		return ""
	}
	return vs.ChannelID
}

func (g *Gateway) DisconnectMember(ctx context.Context, guildID, userID string) error {
	err := g.s.GuildMemberMove(guildID, userID, nil, discordgo.WithContext(ctx))
	if err == nil {
		return nil
	}

	var rerr *discordgo.RESTError
	if errors.As(err, &rerr) {
		if rerr.Message != nil && rerr.Message.Code == jsonCodeNotInVoice {
			return service.ErrNotConnected
		}
		if rerr.Response != nil {
			switch rerr.Response.StatusCode {
			case http.StatusForbidden:
				return service.ErrForbidden
			case http.StatusNotFound:
				return service.ErrNotConnected
			}
		}
	}
	// lo demás (rate limit, red) es transitorio
	return err
}

// ---------- mapeo discordgo -> domain ----------

func mapChannel(ch *discordgo.Channel) domain.Channel {
	out := domain.Channel{
		ID:       ch.ID,
		GuildID:  ch.GuildID,
		Name:     ch.Name,
		Type:     mapChannelType(ch.Type),
		ParentID: ch.ParentID,
	}
	for _, ow := range ch.PermissionOverwrites {
		kind := domain.OverwriteRole
		if ow.Type == discordgo.PermissionOverwriteTypeMember {
			kind = domain.OverwriteMember
		}
		out.Overwrites = append(out.Overwrites, domain.Overwrite{
			ID:    ow.ID,
			Kind:  kind,
			Allow: domain.Capabilities(ow.Allow),
			Deny:  domain.Capabilities(ow.Deny),
		})
	}
	return out
}

func mapChannelType(t discordgo.ChannelType) domain.ChannelType {
	switch t {
	case discordgo.ChannelTypeGuildVoice:
		return domain.ChannelVoice
	case discordgo.ChannelTypeGuildCategory:
		return domain.ChannelCategory
	default:
		return domain.ChannelOther
	}
}

func mapRole(ro *discordgo.Role) domain.Role {
	return domain.Role{
		ID:          ro.ID,
		Name:        ro.Name,
		Position:    ro.Position,
		Permissions: domain.Capabilities(ro.Permissions),
	}
}

func mapMember(me *discordgo.Member) domain.Member {
	return domain.Member{
		UserID: me.User.ID,
		Roles:  me.Roles,
	}
}
