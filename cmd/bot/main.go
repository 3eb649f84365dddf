package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	discordrouter "github.com/vilgotf/voice-pruner/internal/adapters/discord"
	"github.com/vilgotf/voice-pruner/internal/app/dispatch"
	"github.com/vilgotf/voice-pruner/internal/app/mirror"
	"github.com/vilgotf/voice-pruner/internal/app/service"
	"github.com/vilgotf/voice-pruner/internal/infra/config"
	"github.com/vilgotf/voice-pruner/internal/infra/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	_ = godotenv.Load()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	// DB
	db, err := storage.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := storage.Migrate(db); err != nil {
		log.Fatal("migrate:", err)
	}
	log.Println("✅ DB lista y migrada")

	// Repos
	policyRepo := storage.NewPolicyRepo(db)
	pruneLogRepo := storage.NewPruneLogRepo(db)

	// Discord session
	auth := cfg.DiscordToken
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(auth)), "bot ") {
		auth = "Bot " + strings.TrimSpace(auth)
	}
	s, err := discordgo.New(auth)
	if err != nil {
		log.Fatal(err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentsGuildVoiceStates

	// el bot de la sesión llega en READY; antes de abrir no hay User
	u, err := s.User("@me")
	if err != nil {
		log.Fatal(err)
	}

	// Mirror + services
	gw := discordrouter.NewGateway(s)
	mir := mirror.New()
	monitorSvc := service.NewMonitorService(mir, policyRepo, u.ID)
	pruneSvc := service.NewPruneService(mir, monitorSvc, gw, pruneLogRepo)
	policySvc := service.NewPolicyService(policyRepo)

	// Dispatcher (único escritor del mirror)
	d := dispatch.New(mir, monitorSvc, pruneSvc, gw)

	// Router
	r := discordrouter.NewRouter(s, cfg.DiscordGuild, d, monitorSvc, pruneSvc, policySvc)

	// Los handlers van ANTES de abrir la sesión: el burst inicial de
	// GuildCreate llega apenas discord manda READY y es lo único que
	// dispara el snapshot de cada guild. AddHandler no es retroactivo;
	// la cola del dispatcher los retiene hasta que Run arranque.
	r.Handlers()

	if err := s.Open(); err != nil {
		log.Fatal(err)
	}
	defer s.Close()
	log.Printf("✅ Conectado como %s (%s)", s.State.User.Username, s.State.User.ID)

	if cfg.RemoveSlashCommands {
		if err := r.Unregister(); err != nil {
			log.Fatalf("borrando comandos: %v", err)
		}
		log.Println("✅ comandos borrados, saliendo")
		return
	}
	if err := r.Register(); err != nil {
		log.Fatalf("registrando comandos: %v", err)
	}
	log.Println("✅ comandos registrados")

	// Loop de eventos; Run drena los prunes en vuelo antes de volver
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	// Esperar señal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop
	log.Println("señal recibida, bajando")
	cancel()
	<-done
}
