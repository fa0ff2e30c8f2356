package delete_restriction

import (
	"net/http"
	"time"

	"github.com/cardinal-bot/cardinal/state"
	"github.com/cardinal-bot/cardinal/types"
	"github.com/cardinal-bot/cardinal/webserver/webutils"
	"github.com/go-chi/chi/v5"

	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/ratelimit"
	"github.com/infinitybotlist/eureka/uapi"
)

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Reset Command Restrictions",
		Description: "Deletes every restriction of a command in a guild. 404 means there was nothing to reset.",
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
	limit, hresp, ok := webutils.Ratelimit(d, r, ratelimit.Ratelimit{
		Expiry:      1 * time.Minute,
		MaxRequests: 20,
		Bucket:      "command_restrictions",
	})

	if !ok {
		return hresp
	}

	guildId := chi.URLParam(r, "guild_id")

	command, hresp, ok := webutils.ResolveCommand(r)

	if !ok {
		return hresp
	}

	if !state.Restrictions.Reset(d.Context, guildId, command) {
		return uapi.HttpResponse{
			Status:  http.StatusNotFound,
			Json:    types.ApiError{Message: "No restrictions configured for " + command},
			Headers: limit.Headers(),
		}
	}

	return uapi.HttpResponse{
		Status:  http.StatusNoContent,
		Headers: limit.Headers(),
	}
}
