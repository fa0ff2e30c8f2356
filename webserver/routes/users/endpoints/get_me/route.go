package get_me

import (
	"errors"
	"net/http"
	"time"

	"github.com/cardinal-bot/cardinal/bot"
	"github.com/cardinal-bot/cardinal/state"
	"github.com/cardinal-bot/cardinal/types"
	"github.com/cardinal-bot/cardinal/webserver/webutils"
	"go.uber.org/zap"

	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/dovewing"
	"github.com/infinitybotlist/eureka/ratelimit"
	"github.com/infinitybotlist/eureka/uapi"
)

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Get Current User",
		Description: "Returns the authenticated user along with the guilds they share with the bot",
		Resp:        types.Me{},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	limit, hresp, ok := webutils.Ratelimit(d, r, ratelimit.Ratelimit{
		Expiry:      5 * time.Second,
		MaxRequests: 2,
		Bucket:      "get_me",
	})

	if !ok {
		return hresp
	}

	user, err := dovewing.GetUser(d.Context, d.Auth.ID, state.DovewingPlatformDiscord)

	if err != nil {
		state.Logger.Error("Failed to fetch user", zap.Error(err), zap.String("userId", d.Auth.ID))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	var userstate string

	err = state.Pool.QueryRow(d.Context, "SELECT state FROM users WHERE user_id = $1", d.Auth.ID).Scan(&userstate)

	if err != nil {
		state.Logger.Error("Failed to query database", zap.Error(err))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	me := &types.Me{
		User:   user,
		State:  userstate,
		Guilds: []*types.FlattenedGuild{},
	}

	oauthGuilds, err := webutils.FetchOAuthGuilds(d.Context, d.Auth.ID)

	if errors.Is(err, webutils.ErrNoAccessToken) {
		return uapi.HttpResponse{
			Json:    me,
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

	for _, id := range ids {
		if !botIn[id] {
			continue
		}

		g, err := bot.Guild(d.Context, state.Discord, id)

		if err != nil {
			state.Logger.Warn("Failed to fetch shared guild", zap.Error(err), zap.String("guildId", id))
			continue
		}

		me.Guilds = append(me.Guilds, webutils.FlattenGuild(g))
	}

	return uapi.HttpResponse{
		Json:    me,
		Headers: limit.Headers(),
	}
}
