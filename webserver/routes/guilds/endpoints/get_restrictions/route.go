package get_restrictions

import (
	"net/http"

	"github.com/cardinal-bot/cardinal/restrictions"
	"github.com/cardinal-bot/cardinal/state"
	"github.com/cardinal-bot/cardinal/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/uapi"
)

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Get Guild Restrictions",
		Description: "Lists the command restrictions of every configured command in a guild",
		Resp:        types.RestrictionList{},
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

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	guildId := chi.URLParam(r, "guild_id")

	records, err := state.Restrictions.List(d.Context, guildId)

	if err != nil {
		state.Logger.Error("Failed to list command restrictions", zap.Error(err), zap.String("guildId", guildId))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	if records == nil {
		records = []*restrictions.Record{}
	}

	return uapi.HttpResponse{
		Json: types.RestrictionList{Restrictions: records},
	}
}
