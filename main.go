package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/cardinal-bot/cardinal/bot"
	"github.com/cardinal-bot/cardinal/bot/commands"
	"github.com/cardinal-bot/cardinal/config"
	"github.com/cardinal-bot/cardinal/db"
	"github.com/cardinal-bot/cardinal/state"
	"github.com/cardinal-bot/cardinal/webserver"

	"github.com/cloudflare/tableflip"
	"github.com/go-chi/chi/v5"
	"github.com/infinitybotlist/eureka/genconfig"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const help = `usage: cardinal <command>

commands:
  bot        connect to the gateway and serve the API
  webserver  serve the API only
  migrate    apply the database schema
  genconfig  write config.yaml.sample
`

func main() {
	if len(os.Args) < 2 {
		os.Args = append(os.Args, "help")
	}

	switch os.Args[1] {
	case "bot":
		state.Setup()

		state.CurrentOperationMode = os.Args[1]

		startBot()

		serve(webserver.CreateWebserver())

		if err := state.Discord.Close(); err != nil {
			state.Logger.Error("Error closing gateway", zap.Error(err))
		}
	case "webserver":
		state.Setup()

		state.CurrentOperationMode = os.Args[1]

		serve(webserver.CreateWebserver())
	case "migrate":
		state.LoadConfig()

		pool, err := pgxpool.New(state.Context, state.Config.Meta.PostgresURL)

		if err != nil {
			state.Logger.Fatal("Error connecting to postgres", zap.Error(err))
		}

		defer pool.Close()

		if err := db.Migrate(state.Context, pool); err != nil {
			state.Logger.Fatal("Error applying schema", zap.Error(err))
		}

		state.Logger.Info("Schema applied")
	case "genconfig":
		genconfig.GenConfig(config.Config{})
	default:
		fmt.Print(help)
	}
}

func startBot() {
	cfg := state.Config.Bot

	dispatcher := bot.NewDispatcher(bot.Options{
		Prefix:          cfg.Prefix,
		RootUsers:       state.Config.DiscordAuth.RootUsers,
		Restrictions:    state.Restrictions,
		Cooldowns:       state.Cooldowns,
		Analytics:       state.Analytics,
		Logger:          state.Logger.With(zap.String("component", "dispatcher")),
		TemporaryTTL:    time.Duration(cfg.TemporaryMessageTTL) * time.Second,
		DefaultCooldown: time.Duration(cfg.CooldownSeconds) * time.Second,
	})

	deps := commands.Deps{
		Pool:         state.Pool,
		Restrictions: state.Restrictions,
		Find:         dispatcher.Find,
	}

	if cfg.ArchiveCleanedMessages {
		deps.ObjectStorage = state.ObjectStorage
	}

	if err := dispatcher.Register(commands.All(deps)...); err != nil {
		state.Logger.Fatal("Error registering commands", zap.Error(err))
	}

	state.Discord.AddHandler(dispatcher.HandleMessageCreate)
	bot.TrackGuilds(state.Discord, state.Pool, state.Logger)

	if err := state.Discord.Open(); err != nil {
		state.Logger.Fatal("Error opening gateway", zap.Error(err))
	}

	state.Logger.Info("Gateway open", zap.Int("commands", len(dispatcher.Commands())), zap.String("prefix", cfg.Prefix))
}

// serve blocks until the server is stopped or replaced by an upgrade
func serve(r *chi.Mux) {
	addr := ":" + strconv.Itoa(state.Config.Meta.Port.Parse())

	// If GOOS is windows, do normal http server
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		// Tableflip not supported
		state.Logger.Warn("Tableflip not supported on this platform, this is not a production-capable server.")
		err := http.ListenAndServe(addr, r)

		if err != nil {
			state.Logger.Fatal("Error binding to socket", zap.Error(err))
		}

		return
	}

	upg, err := tableflip.New(tableflip.Options{})

	if err != nil {
		state.Logger.Fatal("Error creating upgrader", zap.Error(err))
	}

	defer upg.Stop()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
		for s := range sig {
			if s != syscall.SIGHUP {
				state.Logger.Info("Shutting down", zap.String("signal", s.String()))
				upg.Stop()
				return
			}

			state.Logger.Info("Received SIGHUP, upgrading server")
			err := upg.Upgrade()

			if err != nil {
				state.Logger.Error("Error upgrading server", zap.Error(err))
			}
		}
	}()

	// Listen must be called before Ready
	ln, err := upg.Listen("tcp", addr)

	if err != nil {
		state.Logger.Fatal("Error binding to socket", zap.Error(err))
	}

	defer ln.Close()

	server := http.Server{
		ReadTimeout: 30 * time.Second,
		Handler:     r,
	}

	go func() {
		err := server.Serve(ln)
		if err != http.ErrServerClosed {
			state.Logger.Error("Server failed due to unexpected error", zap.Error(err))
		}
	}()

	if err := upg.Ready(); err != nil {
		state.Logger.Fatal("Error calling upg.Ready", zap.Error(err))
	}

	<-upg.Exit()
}
