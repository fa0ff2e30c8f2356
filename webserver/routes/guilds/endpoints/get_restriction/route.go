package get_restriction

import (
	"net/http"

	"github.com/cardinal-bot/cardinal/restrictions"
	"github.com/cardinal-bot/cardinal/state"
	"github.com/cardinal-bot/cardinal/webserver/webutils"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/uapi"
)

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Get Command Restrictions",
		Description: "Returns the restriction record of a command in a guild. 404 means the command has no restrictions configured.",
		Resp:        restrictions.Record{},
		Params: []docs.Parameter{
			{
				Name:        "guild_id",
				Description: "The guild ID",
				In:          "path",
				Required:    true,
				Schema:      docs.IdSchema,
			},
			{
				Name:        "command",
				Description: "The command name or alias",
				In:          "path",
				Required:    true,
				Schema:      docs.IdSchema,
			},
		},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	guildId := chi.URLParam(r, "guild_id")

	command, hresp, ok := webutils.ResolveCommand(r)

	if !ok {
		return hresp
	}

	lookup := state.Restrictions.Lookup(d.Context, guildId, command)

	switch lookup.Status {
	case restrictions.Found:
		return uapi.HttpResponse{
			Json: lookup.Record,
		}
	case restrictions.NotConfigured:
		return uapi.DefaultResponse(http.StatusNotFound)
	default:
		state.Logger.Error("Failed to load command restrictions", zap.Error(lookup.Err), zap.String("guildId", guildId), zap.String("command", command))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}
}
