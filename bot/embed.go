package bot

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	EmojiSuccess = "✅"
	EmojiFail    = "❌"
)

type Style int

const (
	StyleDefault Style = iota
	StyleSuccess
	StyleFail
)

var styleColors = map[Style]int{
	StyleDefault: 0xC41E3A,
	StyleSuccess: 0x57F287,
	StyleFail:    0xED4245,
}

// EmbedBuilder builds embeds in the bot's colours
type EmbedBuilder struct {
	embed *discordgo.MessageEmbed
}

func NewEmbed() *EmbedBuilder {
	return &EmbedBuilder{
		embed: &discordgo.MessageEmbed{
			Color:     styleColors[StyleDefault],
			Timestamp: time.Now().Format(time.RFC3339),
		},
	}
}

func (e *EmbedBuilder) SetStyle(s Style) *EmbedBuilder {
	e.embed.Color = styleColors[s]
	return e
}

func (e *EmbedBuilder) SetTitle(title string) *EmbedBuilder {
	e.embed.Title = title
	return e
}

func (e *EmbedBuilder) SetDescription(desc string) *EmbedBuilder {
	e.embed.Description = desc
	return e
}

func (e *EmbedBuilder) AddField(name, value string, inline bool) *EmbedBuilder {
	e.embed.Fields = append(e.embed.Fields, &discordgo.MessageEmbedField{
		Name:   name,
		Value:  value,
		Inline: inline,
	})
	return e
}

func (e *EmbedBuilder) SetFooter(text string) *EmbedBuilder {
	e.embed.Footer = &discordgo.MessageEmbedFooter{Text: text}
	return e
}

func (e *EmbedBuilder) Build() *discordgo.MessageEmbed {
	return e.embed
}

// FailEmbed is the usual one line failure reply
func FailEmbed(desc string) *discordgo.MessageEmbed {
	return NewEmbed().SetStyle(StyleFail).SetDescription(desc).Build()
}

func SuccessEmbed(desc string) *discordgo.MessageEmbed {
	return NewEmbed().SetStyle(StyleSuccess).SetDescription(desc).Build()
}
