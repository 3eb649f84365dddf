package discord

import "github.com/bwmarrin/discordgo"

var voiceOnly = []discordgo.ChannelType{discordgo.ChannelTypeGuildVoice}

var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "is-monitored",
		Description: "Chequea si un canal de voz está monitoreado",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "channel",
			Description:  "Canal de voz a consultar",
			ChannelTypes: voiceOnly,
			Required:     true,
		}},
	},
	{
		Name:        "list",
		Description: "Lista canales de voz monitoreados o no monitoreados",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "monitored", Description: "Canales monitoreados"},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "unmonitored", Description: "Canales no monitoreados"},
		},
	},
	{
		Name:        "prune",
		Description: "Expulsa de voz a los miembros sin permiso CONNECT",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:         discordgo.ApplicationCommandOptionChannel,
				Name:         "channel",
				Description:  "Solo este canal de voz (default: todos los monitoreados)",
				ChannelTypes: voiceOnly,
			},
			{
				Type:        discordgo.ApplicationCommandOptionRole,
				Name:        "role",
				Description: "Solo miembros con este rol",
			},
		},
	},
	{
		Name:        "policy",
		Description: "Ver o cambiar la config del auto-prune (admins)",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "show", Description: "Ver configuración"},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "set",
				Description: "Actualizar configuración (sólo lo que pases)",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionBoolean, Name: "autoprune_enabled", Description: "Prender/apagar el auto-prune"},
					{Type: discordgo.ApplicationCommandOptionString, Name: "exempt_role_name", Description: "Nombre del rol de exención"},
				},
			},
		},
	},
}
