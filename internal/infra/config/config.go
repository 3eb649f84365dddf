package config

import (
	"log"
	"os"
)

type Config struct {
	DatabaseURL  string
	DiscordToken string

	// Opcional: registrar comandos sólo en este guild (deploy de prueba)
	// en vez de globales.
	DiscordGuild string

	// Si está seteado, borra los comandos registrados y sale.
	RemoveSlashCommands bool
}

func Load() Config {
	get := func(k string, req bool) string {
		v := os.Getenv(k)
		if v == "" && req {
			log.Fatalf("faltante env %s", k)
		}
		return v
	}

	return Config{
		DatabaseURL:         get("DATABASE_URL", true),
		DiscordToken:        get("DISCORD_BOT_TOKEN", true),
		DiscordGuild:        get("GUILD_ID", false),
		RemoveSlashCommands: get("DELETE_SLASH_COMMANDS", false) != "",
	}
}
