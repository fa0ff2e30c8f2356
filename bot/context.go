package bot

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Context is handed to every command run
type Context struct {
	context.Context

	Session *discordgo.Session
	Message *discordgo.Message
	Guild   *discordgo.Guild
	Member  *discordgo.Member
	Channel *discordgo.Channel
	Command *Command
	Prefix  string
	Args    *Args
	Logger  *zap.Logger

	// Alias the command was invoked with
	Invoked string

	temporaryTTL time.Duration
}

func (c *Context) Author() *discordgo.User {
	return c.Message.Author
}

// Reply sends an embed reply to the invoking message
func (c *Context) Reply(embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	return c.Session.ChannelMessageSendComplex(c.Message.ChannelID, &discordgo.MessageSend{
		Embeds:    []*discordgo.MessageEmbed{embed},
		Reference: c.Message.Reference(),
		AllowedMentions: &discordgo.MessageAllowedMentions{
			RepliedUser: false,
		},
	}, discordgo.WithContext(c))
}

// ReplyTemporary replies and deletes both the reply and the invoking message
// once the temporary message TTL elapses
func (c *Context) ReplyTemporary(embed *discordgo.MessageEmbed) error {
	msg, err := c.Reply(embed)
	if err != nil {
		return err
	}

	c.DeleteLater(msg.ID, c.Message.ID)
	return nil
}

// DeleteLater removes messages of the invoking channel once the temporary
// message TTL elapses
func (c *Context) DeleteLater(ids ...string) {
	if c.temporaryTTL <= 0 || len(ids) == 0 {
		return
	}

	channelID := c.Message.ChannelID
	time.AfterFunc(c.temporaryTTL, func() {
		if err := c.Session.ChannelMessagesBulkDelete(channelID, ids); err != nil {
			c.Logger.Debug("Failed to delete temporary messages", zap.Error(err), zap.String("channelId", channelID))
		}
	})
}

// Fail replies with a temporary failure embed
func (c *Context) Fail(desc string) error {
	return c.ReplyTemporary(FailEmbed(desc))
}

func (c *Context) Success(desc string) error {
	_, err := c.Reply(SuccessEmbed(desc))
	return err
}
