package get_user_guilds

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/cardinal-bot/cardinal/bot"
	"github.com/cardinal-bot/cardinal/state"
	"github.com/cardinal-bot/cardinal/types"
	"github.com/cardinal-bot/cardinal/webserver/webutils"
	"go.uber.org/zap"

	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/ratelimit"
	"github.com/infinitybotlist/eureka/uapi"
)

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Get User Guilds",
		Description: "Returns the guilds of the authenticated user from Discord, marking which ones the bot is in and which ones the user can manage",
		Resp:        []types.OauthFlattenedGuild{},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	limit, hresp, ok := webutils.Ratelimit(d, r, ratelimit.Ratelimit{
		Expiry:      5 * time.Minute,
		MaxRequests: 5,
		Bucket:      "get_user_guilds",
	})

	if !ok {
		return hresp
	}

	oauthGuilds, err := webutils.FetchOAuthGuilds(d.Context, d.Auth.ID)

	if errors.Is(err, webutils.ErrNoAccessToken) {
		return uapi.HttpResponse{
			Status:  http.StatusBadRequest,
			Json:    types.ApiError{Message: "No Discord access token is stored for you, please log in again"},
			Headers: limit.Headers(),
		}
	}

	if err != nil {
		state.Logger.Error("Failed to fetch oauth2 guilds", zap.Error(err), zap.String("userId", d.Auth.ID))
		return uapi.HttpResponse{
			Status:  http.StatusInternalServerError,
			Json:    types.ApiError{Message: "Failed to fetch your guilds from Discord"},
			Headers: limit.Headers(),
		}
	}

	ids := make([]string, len(oauthGuilds))
	for i, og := range oauthGuilds {
		ids[i] = og.ID
	}

	botIn, err := webutils.BotGuilds(d.Context, ids)

	if err != nil {
		state.Logger.Error("Failed to query database", zap.Error(err))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	guilds := make([]*types.OauthFlattenedGuild, 0, len(oauthGuilds))

	for _, og := range oauthGuilds {
		var g *discordgo.Guild

		if botIn[og.ID] {
			g, err = bot.Guild(d.Context, state.Discord, og.ID)

			if err != nil {
				state.Logger.Warn("Failed to fetch guild, treating the bot as absent", zap.Error(err), zap.String("guildId", og.ID))
				g = nil
			}
		}

		flattened := webutils.PartialGuild(d.Auth.ID, og)
		if g != nil {
			flattened = webutils.FlattenGuild(g)
		}

		guilds = append(guilds, &types.OauthFlattenedGuild{
			FlattenedGuild: *flattened,
			Permissions:    strconv.FormatInt(og.Permissions, 10),
			Manageable:     webutils.Manageable(d.Context, d.Auth.ID, og, g),
			CardinalIsIn:   g != nil,
		})
	}

	return uapi.HttpResponse{
		Json:    guilds,
		Headers: limit.Headers(),
	}
}
