package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// Guild reads from the state cache before falling back to the API
func Guild(ctx context.Context, s *discordgo.Session, guildID string) (*discordgo.Guild, error) {
	if g, err := s.State.Guild(guildID); err == nil {
		return g, nil
	}
	return s.Guild(guildID, discordgo.WithContext(ctx))
}

func Member(ctx context.Context, s *discordgo.Session, guildID, userID string) (*discordgo.Member, error) {
	if m, err := s.State.Member(guildID, userID); err == nil {
		return m, nil
	}
	return s.GuildMember(guildID, userID, discordgo.WithContext(ctx))
}

func Channel(ctx context.Context, s *discordgo.Session, channelID string) (*discordgo.Channel, error) {
	if c, err := s.State.Channel(channelID); err == nil {
		return c, nil
	}
	return s.Channel(channelID, discordgo.WithContext(ctx))
}
