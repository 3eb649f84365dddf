package discord

import "github.com/bwmarrin/discordgo"

// Los valores crudos de opciones channel/role son IDs (snowflakes como
// string); los buscamos por nombre también dentro de subcommands.
func findOpt(ic *discordgo.InteractionCreate, name string) *discordgo.ApplicationCommandInteractionDataOption {
	if ic.Type != discordgo.InteractionApplicationCommand {
		return nil
	}
	for _, o := range ic.ApplicationCommandData().Options {
		if o.Name == name {
			return o
		}
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			for _, so := range o.Options {
				if so.Name == name {
					return so
				}
			}
		}
	}
	return nil
}

func optChannelID(ic *discordgo.InteractionCreate, name string) (string, bool) {
	if o := findOpt(ic, name); o != nil && o.Type == discordgo.ApplicationCommandOptionChannel {
		return o.Value.(string), true
	}
	return "", false
}

func optRoleID(ic *discordgo.InteractionCreate, name string) (string, bool) {
	if o := findOpt(ic, name); o != nil && o.Type == discordgo.ApplicationCommandOptionRole {
		return o.Value.(string), true
	}
	return "", false
}

func optStr(ic *discordgo.InteractionCreate, name string) (string, bool) {
	if o := findOpt(ic, name); o != nil && o.Type == discordgo.ApplicationCommandOptionString {
		return o.StringValue(), true
	}
	return "", false
}

func optBool(ic *discordgo.InteractionCreate, name string) (bool, bool) {
	if o := findOpt(ic, name); o != nil && o.Type == discordgo.ApplicationCommandOptionBoolean {
		return o.BoolValue(), true
	}
	return false, false
}

func subcmdName(ic *discordgo.InteractionCreate) (string, bool) {
	if ic.Type != discordgo.InteractionApplicationCommand {
		return "", false
	}
	for _, o := range ic.ApplicationCommandData().Options {
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			return o.Name, true
		}
	}
	return "", false
}
