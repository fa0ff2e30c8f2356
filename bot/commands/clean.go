package commands

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/cardinal-bot/cardinal/bot"
	"github.com/cardinal-bot/cardinal/utils"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const (
	cleanFetchLimit   = 100
	transcriptsDir    = "transcripts"
	transcriptsExpiry = 30 * 24 * time.Hour
)

func Clean(deps Deps) *bot.Command {
	return &bot.Command{
		Name:                      "clean",
		Description:               "Delete recent bot messages and command invocations",
		ExtendedHelp:              "Looks at the last 100 messages of the channel and deletes those sent by the bot or starting with the prefix",
		PermissionLevel:           bot.Trainee,
		RequiredClientPermissions: discordgo.PermissionManageMessages | discordgo.PermissionReadMessageHistory,
		Run: func(c *bot.Context) error {
			return runClean(c, deps)
		},
	}
}

// SelectCleanable picks the messages authored by botID or starting with prefix,
// leaving out the message with id skip
func SelectCleanable(msgs []*discordgo.Message, botID, prefix, skip string) []*discordgo.Message {
	var out []*discordgo.Message
	for _, m := range msgs {
		if m.ID == skip {
			continue
		}
		if (m.Author != nil && m.Author.ID == botID) || strings.HasPrefix(m.Content, prefix) {
			out = append(out, m)
		}
	}
	return out
}

// Transcript renders messages oldest first as plain text
func Transcript(msgs []*discordgo.Message) *bytes.Buffer {
	var buf bytes.Buffer
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]

		author := "unknown"
		if m.Author != nil {
			author = utils.GetTag(m.Author) + " (" + m.Author.ID + ")"
		}

		fmt.Fprintf(&buf, "[%s] %s: %s\n", m.Timestamp.UTC().Format(time.RFC3339), author, m.Content)
	}
	return &buf
}

func runClean(c *bot.Context, deps Deps) error {
	msgs, err := c.Session.ChannelMessages(c.Message.ChannelID, cleanFetchLimit, "", "", "", discordgo.WithContext(c))
	if err != nil {
		return fmt.Errorf("fetching messages: %w", err)
	}

	toDelete := SelectCleanable(msgs, c.Session.State.User.ID, c.Prefix, c.Message.ID)

	if err := c.Session.ChannelMessageDelete(c.Message.ChannelID, c.Message.ID, discordgo.WithContext(c)); err != nil {
		c.Logger.Debug("Failed to delete invoking message", zap.Error(err))
	}

	ids := make([]string, len(toDelete))
	for i, m := range toDelete {
		ids[i] = m.ID
	}

	if err := c.Session.ChannelMessagesBulkDelete(c.Message.ChannelID, ids, discordgo.WithContext(c)); err != nil {
		c.Logger.Error("Bulk delete failed", zap.Error(err), zap.Int("count", len(ids)))
		_, err = c.Session.ChannelMessageSendEmbed(c.Message.ChannelID, bot.FailEmbed("Something went wrong"), discordgo.WithContext(c))
		return err
	}

	if deps.ObjectStorage != nil && len(toDelete) > 0 {
		archiveTranscript(c, deps, toDelete)
	}

	// The invoking message is gone so this cannot be a reply
	msg, err := c.Session.ChannelMessageSendEmbed(
		c.Message.ChannelID,
		bot.NewEmbed().
			SetStyle(bot.StyleSuccess).
			SetDescription(fmt.Sprintf("%s Successfully cleaned `%d messages`", bot.EmojiSuccess, len(toDelete))).
			Build(),
		discordgo.WithContext(c),
	)
	if err != nil {
		return err
	}

	c.DeleteLater(msg.ID)
	return nil
}

func archiveTranscript(c *bot.Context, deps Deps, msgs []*discordgo.Message) {
	dir := transcriptsDir + "/" + c.Guild.ID
	filename := c.Message.ChannelID + "-" + ulid.Make().String() + ".txt"

	err := deps.ObjectStorage.Save(c, dir, filename, "text/plain; charset=utf-8", Transcript(msgs), transcriptsExpiry)
	if err != nil {
		c.Logger.Error("Failed to archive clean transcript", zap.Error(err), zap.String("dir", dir))
		return
	}

	c.Logger.Info("Archived clean transcript", zap.String("dir", dir), zap.String("filename", filename), zap.Int("count", len(msgs)))
}
