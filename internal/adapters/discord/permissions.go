package discord

import "github.com/bwmarrin/discordgo"

// requireMoveMembers: los comandos del bot piden el mismo permiso que el
// bot necesita para actuar. Las interacciones traen los permisos del
// caller resueltos, no hace falta recalcular nada.
func (r *Router) requireMoveMembers(s *discordgo.Session, ic *discordgo.InteractionCreate) bool {
	// Owner
	if g, _ := s.State.Guild(ic.GuildID); g != nil && ic.Member != nil && ic.Member.User != nil && ic.Member.User.ID == g.OwnerID {
		return true
	}

	perms := ic.Member.Permissions
	if perms&discordgo.PermissionAdministrator != 0 || perms&discordgo.PermissionVoiceMoveMembers != 0 {
		return true
	}

	ReplyEphemeral(s, ic, "⚠️ **Requiere el permiso `MOVE_MEMBERS`**")
	return false
}
