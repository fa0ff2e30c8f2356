package get_automod

import (
	"net/http"

	"github.com/cardinal-bot/cardinal/automod"
	"github.com/cardinal-bot/cardinal/state"
	"github.com/cardinal-bot/cardinal/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/uapi"
)

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Get Automod Rules",
		Description: "Lists every automod rule of a guild and whether it is enabled",
		Resp:        types.AutomodOverview{},
		Params: []docs.Parameter{
			{
				Name:        "guild_id",
				Description: "The guild ID",
				In:          "path",
				Required:    true,
				Schema:      docs.IdSchema,
			},
		},
	}
}

// Overview converts rule settings into the response body
func Overview(settings []automod.Setting) types.AutomodOverview {
	om := automod.Overview(settings)

	out := types.AutomodOverview{Rules: make([]types.AutomodRuleState, 0, om.Len())}
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		out.Rules = append(out.Rules, types.AutomodRuleState{Rule: pair.Key, Enabled: pair.Value})
	}

	return out
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	guildId := chi.URLParam(r, "guild_id")

	settings, err := automod.New(state.Pool, guildId).List(d.Context)

	if err != nil {
		state.Logger.Error("Failed to list automod rules", zap.Error(err), zap.String("guildId", guildId))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	return uapi.HttpResponse{
		Json: Overview(settings),
	}
}
