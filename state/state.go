package state

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cardinal-bot/cardinal/config"
	"github.com/cardinal-bot/cardinal/objectstorage"
	"github.com/cardinal-bot/cardinal/restrictions"
	"github.com/cardinal-bot/cardinal/state/redishotcache"

	"github.com/bwmarrin/discordgo"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/infinitybotlist/eureka/dovewing"
	"github.com/infinitybotlist/eureka/dovewing/dovetypes"
	"github.com/infinitybotlist/eureka/genconfig"
	"github.com/infinitybotlist/eureka/proxy"
	"github.com/infinitybotlist/eureka/ratelimit"
	"github.com/infinitybotlist/eureka/snippets"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	Pool                    *pgxpool.Pool
	Redis                   *redis.Client  // restriction backend
	Rueidis                 rueidis.Client // where perf is needed
	DovewingPlatformDiscord *dovewing.DiscordState
	Discord                 *discordgo.Session
	BotUser                 *discordgo.User
	Logger                  *zap.Logger
	Context                 = context.Background()
	Validator               = validator.New()
	ObjectStorage           *objectstorage.ObjectStorage
	Restrictions            *restrictions.Store
	CurrentOperationMode    string // bot or webserver

	// Per (command, user) cooldowns and command usage counters
	Cooldowns redishotcache.RuedisHotCache[int]
	Analytics redishotcache.RuedisHotCache[int]

	Config *config.Config
)

func must(errs ...error) {
	for _, err := range errs {
		if err != nil {
			panic(err)
		}
	}
}

// LoadConfig reads and validates config.yaml
func LoadConfig() {
	must(
		Validator.RegisterValidation("notblank", validators.NotBlank),
		Validator.RegisterValidation("nospaces", snippets.ValidatorNoSpaces),
		Validator.RegisterValidation("https", snippets.ValidatorIsHttps),
		Validator.RegisterValidation("httporhttps", snippets.ValidatorIsHttpOrHttps),
	)

	genconfig.GenConfig(config.Config{})

	cfg, err := os.ReadFile("config.yaml")

	if err != nil {
		panic(err)
	}

	err = yaml.Unmarshal(cfg, &Config)

	if err != nil {
		panic(err)
	}

	err = Validator.Struct(Config)

	if err != nil {
		panic("configError: " + err.Error())
	}

	Logger = snippets.CreateZap()
}

func Setup() {
	LoadConfig()

	var err error

	// Postgres
	Pool, err = pgxpool.New(Context, Config.Meta.PostgresURL)

	if err != nil {
		panic(err)
	}

	// Rueidis
	ruOptions, err := rueidis.ParseURL(Config.Meta.RedisURL.Parse())

	if err != nil {
		panic(err)
	}

	Rueidis, err = rueidis.NewClient(ruOptions)

	if err != nil {
		panic(err)
	}

	Cooldowns = redishotcache.RuedisHotCache[int]{
		Redis:  Rueidis,
		Prefix: "cooldown:",
		For:    "cooldowns",
	}

	Analytics = redishotcache.RuedisHotCache[int]{
		Redis:  Rueidis,
		Prefix: "analytics:",
		For:    "analytics",
	}

	// Object Storage
	ObjectStorage, err = objectstorage.New(&Config.ObjectStorage)

	if err != nil {
		panic(err)
	}

	// Restrictions
	var repo restrictions.Repository
	switch Config.Bot.RestrictionBackend {
	case "redis":
		rOptions, err := redis.ParseURL(Config.Meta.RedisURL.Parse())

		if err != nil {
			panic(err)
		}

		Redis = redis.NewClient(rOptions)
		repo = restrictions.NewRedisRepository(Redis, "restrictions:")
	case "memory":
		Logger.Warn("Using in-memory command restrictions, these are lost on restart")
		repo = restrictions.NewMemoryRepository()
	default:
		repo = restrictions.NewPostgresRepository(Pool)
	}

	Restrictions = restrictions.New(repo, Logger.With(zap.String("component", "restrictions")))

	// Discordgo
	Discord, err = discordgo.New("Bot " + Config.DiscordAuth.Token.Parse())

	if err != nil {
		panic(err)
	}

	if Config.Meta.Proxy != "" {
		Discord.Client.Transport = proxy.NewHostRewriter(strings.Replace(Config.Meta.Proxy, "http://", "", 1), http.DefaultTransport, func(s string) {
			Logger.Info("[PROXY]", zap.String("note", s))
		})
	}

	Discord.Identify.Intents = discordgo.IntentGuilds | discordgo.IntentGuildMembers | discordgo.IntentGuildMessages | discordgo.IntentMessageContent

	// Verify token
	bu, err := Discord.User("@me")

	if err != nil {
		panic(err)
	}

	BotUser = bu

	Discord.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		Logger.Info("[DISCORD] Ready", zap.String("user", r.User.Username), zap.Int("guilds", len(r.Guilds)), zap.Int("shard_id", s.ShardID), zap.Int("shard_count", s.ShardCount))
	})

	// Load dovewing state
	baseDovewingState := dovewing.BaseState{
		Pool:    Pool,
		Logger:  Logger,
		Context: Context,
		PlatformUserCache: redishotcache.RuedisHotCache[dovetypes.PlatformUser]{
			Redis:  Rueidis,
			Prefix: "uobj__",
			For:    "dovewing",
		},
		UserExpiryTime: 8 * time.Hour,
	}

	DovewingPlatformDiscord, err = dovewing.DiscordStateConfig{
		Session:        Discord,
		PreferredGuild: Config.Servers.Main.Parse(),
		BaseState:      &baseDovewingState,
	}.New()

	if err != nil {
		panic(err)
	}

	ratelimit.SetupState(&ratelimit.RLState{
		HotCache: redishotcache.RuedisHotCache[int]{
			Redis:    Rueidis,
			Prefix:   "rl:",
			For:      "ratelimit",
			Disabled: Config.Meta.WebDisableRatelimits,
		},
	})
}
