package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/cardinal-bot/cardinal/db"
	"go.uber.org/zap"
)

// TrackGuilds keeps the guilds table in sync with the guilds the bot is in
func TrackGuilds(s *discordgo.Session, conn db.DbConn, logger *zap.Logger) {
	s.AddHandler(func(s *discordgo.Session, g *discordgo.GuildCreate) {
		_, err := conn.Exec(
			context.Background(),
			"INSERT INTO guilds (id) VALUES ($1) ON CONFLICT (id) DO UPDATE SET left_at = NULL, updated_at = NOW()",
			g.ID,
		)

		if err != nil {
			logger.Error("Failed to record guild", zap.Error(err), zap.String("guildId", g.ID))
		}
	})

	s.AddHandler(func(s *discordgo.Session, g *discordgo.GuildDelete) {
		// outages also send GuildDelete
		if g.Unavailable {
			return
		}

		_, err := conn.Exec(context.Background(), "UPDATE guilds SET left_at = NOW(), updated_at = NOW() WHERE id = $1", g.ID)

		if err != nil {
			logger.Error("Failed to record guild leave", zap.Error(err), zap.String("guildId", g.ID))
		}
	})
}
