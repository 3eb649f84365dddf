// Logica de InteractionApplicationCommand: acá solo se maneja la
// interacción del usuario y se despacha a los servicios correspondientes.
package discord

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/vilgotf/voice-pruner/internal/app/service"
)

func (r *Router) handleSlashCommand(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	cmd := ic.ApplicationCommandData()

	// todos los comandos leen estado del guild
	if ic.GuildID == "" || ic.Member == nil {
		_ = SendEphemeral(s, ic, "⚠️ **No disponible por DM**")
		return
	}
	log.Printf("cmd: /%s by=%s guild=%s", cmd.Name, ic.Member.User.ID, ic.GuildID)

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("panic in cmd /%s: %v", cmd.Name, rec)
			ReplyEphemeral(s, ic, "❌ Ocurrió un error inesperado procesando el comando.")
		}
	}()

	_ = DeferEphemeral(s, ic)
	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()

	switch cmd.Name {

	case "is-monitored":
		if !r.requireMoveMembers(s, ic) {
			return
		}
		channelID, ok := optChannelID(ic, "channel")
		if !ok {
			ReplyEphemeral(s, ic, "Usa `/is-monitored channel:<canal de voz>`.")
			return
		}
		monitored, err := r.monitor.IsMonitored(ic.GuildID, channelID)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ No encuentro ese canal en este servidor.")
			return
		}
		ReplyEphemeral(s, ic, fmt.Sprintf("`%v`", monitored))

	case "list":
		if !r.requireMoveMembers(s, ic) {
			return
		}
		filter := service.ListMonitored
		if sub, ok := subcmdName(ic); ok && sub == "unmonitored" {
			filter = service.ListUnmonitored
		}
		ReplyEphemeral(s, ic, formatChannelList(r.monitor.List(ic.GuildID, filter)))

	case "prune":
		if !r.requireMoveMembers(s, ic) {
			return
		}
		if !r.pruneCooldown.Allow(ic.Member.User.ID) {
			ReplyEphemeral(s, ic, "⏳ Esperá un momento antes de volver a usar `/prune`.")
			return
		}

		stop := timed("prune")
		defer stop()

		roleID, _ := optRoleID(ic, "role")
		var res service.PruneResult
		if channelID, ok := optChannelID(ic, "channel"); ok {
			if ch, err := r.monitor.IsMonitored(ic.GuildID, channelID); err != nil {
				ReplyEphemeral(s, ic, "⚠️ No encuentro ese canal en este servidor.")
				return
			} else if !ch {
				ReplyEphemeral(s, ic, "**El canal no está monitoreado**")
				return
			}
			res = r.prune.PruneChannel(ctx, ic.GuildID, channelID, roleID, ic.Member.User.ID)
		} else {
			res = r.prune.PruneGuild(ctx, ic.GuildID, roleID, ic.Member.User.ID)
		}
		ReplyEphemeral(s, ic, formatPruneResult(res))

	case "policy":
		if !r.requireMoveMembers(s, ic) {
			return
		}
		if sub, ok := subcmdName(ic); ok && sub == "set" {
			var patch service.PolicyPatch
			if v, ok := optBool(ic, "autoprune_enabled"); ok {
				patch.AutopruneEnabled = &v
			}
			if v, ok := optStr(ic, "exempt_role_name"); ok {
				patch.ExemptRoleName = &v
			}
			msg, err := r.policy.Update(ctx, ic.GuildID, patch)
			if err != nil {
				ReplyEphemeral(s, ic, "⚠️ No pude actualizar: "+err.Error())
				return
			}
			ReplyEphemeral(s, ic, "✅ Policy actualizada.\n"+msg)
			return
		}
		msg, err := r.policy.Show(ctx, ic.GuildID)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ No pude obtener la policy: "+err.Error())
			return
		}
		ReplyEphemeral(s, ic, msg)
	}
}

func formatChannelList(channels []service.ChannelSummary) string {
	if len(channels) == 0 {
		return "`None`"
	}
	var b strings.Builder
	for _, ch := range channels {
		fmt.Fprintf(&b, "• **%s**\n", ch.Name)
	}
	return b.String()
}

func formatPruneResult(res service.PruneResult) string {
	if res.Attempted == 0 {
		return "ℹ️ Nadie para expulsar."
	}
	out := fmt.Sprintf("✅ Prune: %d evaluados, %d expulsados", res.Attempted, res.Removed)
	if len(res.Errors) > 0 {
		out += fmt.Sprintf(", %d con error:", len(res.Errors))
		for _, e := range res.Errors {
			out += fmt.Sprintf("\n• <@%s> (%s)", e.UserID, e.Kind)
		}
	}
	return out
}
