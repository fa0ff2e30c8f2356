// Package webutils holds guild helpers shared by the API routes
package webutils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/cardinal-bot/cardinal/bot"
	"github.com/cardinal-bot/cardinal/bot/commands"
	"github.com/cardinal-bot/cardinal/state"
	"github.com/cardinal-bot/cardinal/types"
	"github.com/cardinal-bot/cardinal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/infinitybotlist/eureka/jsonimpl"
	"github.com/infinitybotlist/eureka/uapi"
	"github.com/jackc/pgx/v5"
)

var ErrNoAccessToken = errors.New("user has no stored oauth2 access token")

const userGuildsURL = "https://discord.com/api/v10/users/@me/guilds"

// GuildID reads the guild id URL variable, rejecting anything but a snowflake
func GuildID(r *http.Request, urlVar string) (string, uapi.HttpResponse, bool) {
	guildId := chi.URLParam(r, urlVar)

	if !utils.IsSnowflake(guildId) {
		return "", uapi.HttpResponse{
			Status: http.StatusBadRequest,
			Json:   types.ApiError{Message: "Invalid guild id: " + guildId},
		}, false
	}

	return guildId, uapi.HttpResponse{}, true
}

// IsNotFound reports whether a discord REST call failed with 404
func IsNotFound(err error) bool {
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}

// CanManage reports whether member is the owner or an administrator of g
func CanManage(g *discordgo.Guild, m *discordgo.Member) bool {
	if m.User != nil && g.OwnerID == m.User.ID {
		return true
	}

	return bot.HasPermissionLevel(bot.Administrator, utils.BasePermissions(g, m), false, false)
}

// CanManageGuild fetches the guild and the member. Missing guilds or members
// are reported as false without an error.
func CanManageGuild(ctx context.Context, guildID, userID string) (bool, error) {
	if guildID == "" || userID == "" {
		return false, nil
	}

	g, err := bot.Guild(ctx, state.Discord, guildID)

	if IsNotFound(err) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("fetching guild: %w", err)
	}

	m, err := bot.Member(ctx, state.Discord, guildID, userID)

	if IsNotFound(err) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("fetching member: %w", err)
	}

	return CanManage(g, m), nil
}

// Manageable decides whether the user may manage a guild from their OAuth guild
// list. g is nil when the bot is not in the guild.
func Manageable(ctx context.Context, userID string, og *discordgo.UserGuild, g *discordgo.Guild) bool {
	if og.Owner {
		return true
	}

	if g == nil {
		return og.Permissions&discordgo.PermissionManageServer == discordgo.PermissionManageServer
	}

	m, err := bot.Member(ctx, state.Discord, g.ID, userID)

	if err != nil {
		return false
	}

	return CanManage(g, m)
}

func FlattenGuild(g *discordgo.Guild) *types.FlattenedGuild {
	fg := &types.FlattenedGuild{
		ID:                       g.ID,
		Name:                     g.Name,
		Icon:                     g.Icon,
		IconURL:                  utils.IconURL(g.Icon, discordgo.EndpointGuildIcon(g.ID, g.Icon), discordgo.EndpointGuildIconAnimated(g.ID, g.Icon), "64"),
		Banner:                   g.Banner,
		Splash:                   g.Splash,
		Description:              g.Description,
		OwnerID:                  g.OwnerID,
		AfkChannelID:             g.AfkChannelID,
		AfkTimeout:               g.AfkTimeout,
		SystemChannelID:          g.SystemChannelID,
		VanityURLCode:            g.VanityURLCode,
		PreferredLocale:          g.PreferredLocale,
		MemberCount:              g.MemberCount,
		PremiumTier:              int(g.PremiumTier),
		PremiumSubscriptionCount: g.PremiumSubscriptionCount,
		VerificationLevel:        int(g.VerificationLevel),
		ExplicitContentFilter:    int(g.ExplicitContentFilter),
		MfaLevel:                 int(g.MfaLevel),
		DefaultNotifications:     int(g.DefaultMessageNotifications),
		WidgetEnabled:            g.WidgetEnabled,
		Features:                 make([]string, 0, len(g.Features)),
		Roles:                    make([]string, 0, len(g.Roles)),
		Channels:                 make([]string, 0, len(g.Channels)),
	}

	if fg.MemberCount == 0 {
		fg.MemberCount = g.ApproximateMemberCount
	}

	if !g.JoinedAt.IsZero() {
		joinedAt := g.JoinedAt
		fg.JoinedAt = &joinedAt
	}

	for _, f := range g.Features {
		fg.Features = append(fg.Features, string(f))
	}

	for _, r := range g.Roles {
		fg.Roles = append(fg.Roles, r.ID)
	}

	for _, c := range g.Channels {
		fg.Channels = append(fg.Channels, c.ID)
	}

	return fg
}

// PartialGuild is the flattened view of a guild the bot is not in
func PartialGuild(userID string, og *discordgo.UserGuild) *types.FlattenedGuild {
	fg := &types.FlattenedGuild{
		ID:              og.ID,
		Name:            og.Name,
		Icon:            og.Icon,
		IconURL:         utils.IconURL(og.Icon, discordgo.EndpointGuildIcon(og.ID, og.Icon), discordgo.EndpointGuildIconAnimated(og.ID, og.Icon), "64"),
		PreferredLocale: "en-US",
		MemberCount:     og.ApproximateMemberCount,
		Features:        make([]string, 0, len(og.Features)),
		Roles:           []string{},
		Channels:        []string{},
	}

	if og.Owner {
		fg.OwnerID = userID
	}

	for _, f := range og.Features {
		fg.Features = append(fg.Features, string(f))
	}

	return fg
}

// FetchOAuthGuilds lists the user's guilds with their stored access token
func FetchOAuthGuilds(ctx context.Context, userID string) ([]*discordgo.UserGuild, error) {
	var accessToken *string

	err := state.Pool.QueryRow(ctx, "SELECT access_token FROM users WHERE user_id = $1", userID).Scan(&accessToken)

	if errors.Is(err, pgx.ErrNoRows) || (err == nil && (accessToken == nil || *accessToken == "")) {
		return nil, ErrNoAccessToken
	}

	if err != nil {
		return nil, fmt.Errorf("loading access token: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, userGuildsURL, nil)

	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Authorization", "Bearer "+*accessToken)

	httpResp, err := state.Discord.Client.Do(httpReq)

	if err != nil {
		return nil, fmt.Errorf("requesting user guilds: %w", err)
	}

	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)

	if err != nil {
		return nil, fmt.Errorf("reading user guilds: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discord returned %d for user guilds: %s", httpResp.StatusCode, utils.Truncate(string(body), 200))
	}

	var guilds []*discordgo.UserGuild

	if err := jsonimpl.Unmarshal(body, &guilds); err != nil {
		return nil, fmt.Errorf("parsing user guilds: %w", err)
	}

	return guilds, nil
}

// BotGuilds returns the subset of ids the bot is a member of
func BotGuilds(ctx context.Context, ids []string) (map[string]bool, error) {
	rows, err := state.Pool.Query(ctx, "SELECT id FROM guilds WHERE id = ANY($1) AND left_at IS NULL", ids)

	if err != nil {
		return nil, err
	}

	found, err := pgx.CollectRows(rows, pgx.RowTo[string])

	if err != nil {
		return nil, err
	}

	in := make(map[string]bool, len(found))
	for _, id := range found {
		in[id] = true
	}

	return in, nil
}

// ResolveCommand maps the {command} URL variable to a restrictable command name
func ResolveCommand(r *http.Request) (string, uapi.HttpResponse, bool) {
	name := chi.URLParam(r, "command")

	cmd, ok := commands.Lookup(name)

	if !ok || cmd.Hidden {
		return "", uapi.HttpResponse{
			Status: http.StatusNotFound,
			Json:   types.ApiError{Message: "Unknown command: " + name},
		}, false
	}

	if cmd.Guarded {
		return "", uapi.HttpResponse{
			Status: http.StatusBadRequest,
			Json:   types.ApiError{Message: cmd.Name + " cannot be restricted"},
		}, false
	}

	return cmd.Name, uapi.HttpResponse{}, true
}
