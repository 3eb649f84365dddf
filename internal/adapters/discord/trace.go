package discord

import (
	"log"
	"time"
)

// timed loguea cuánto tardó un comando de punta a punta; los prunes
// guild-wide son los únicos que pueden acercarse al timeout del defer.
func timed(command string) func() {
	start := time.Now()
	return func() { log.Printf("cmd /%s tardó %s", command, time.Since(start)) }
}
