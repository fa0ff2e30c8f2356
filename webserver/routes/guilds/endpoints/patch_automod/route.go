package patch_automod

import (
	"errors"
	"net/http"
	"time"

	"github.com/cardinal-bot/cardinal/automod"
	"github.com/cardinal-bot/cardinal/state"
	"github.com/cardinal-bot/cardinal/types"
	"github.com/cardinal-bot/cardinal/webserver/webutils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/ratelimit"
	"github.com/infinitybotlist/eureka/uapi"
)

var compiledMessages = uapi.CompileValidationErrors(types.PatchAutomodRule{})

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Patch Automod Rule",
		Description: "Enables or disables one automod rule of a guild",
		Req:         types.PatchAutomodRule{},
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
	limit, hresp, ok := webutils.Ratelimit(d, r, ratelimit.Ratelimit{
		Expiry:      1 * time.Minute,
		MaxRequests: 20,
		Bucket:      "automod",
	})

	if !ok {
		return hresp
	}

	guildId := chi.URLParam(r, "guild_id")

	var body types.PatchAutomodRule

	hresp, ok = uapi.MarshalReqWithHeaders(r, &body, limit.Headers())

	if !ok {
		return hresp
	}

	err := state.Validator.Struct(body)

	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return uapi.ValidatorErrorResponse(compiledMessages, verrs)
		}
		return uapi.DefaultResponse(http.StatusBadRequest)
	}

	rule, err := automod.ParseRule(body.Rule)

	if err != nil {
		return uapi.HttpResponse{
			Status: http.StatusBadRequest,
			Json:   types.ApiError{Message: "Unknown automod rule: " + body.Rule},
		}
	}

	cfg := automod.New(state.Pool, guildId)

	if body.Enabled {
		err = cfg.EnableRule(d.Context, rule)
	} else {
		err = cfg.DisableRule(d.Context, rule)
	}

	if err != nil {
		state.Logger.Error("Failed to update automod rule", zap.Error(err), zap.String("guildId", guildId), zap.String("rule", string(rule)))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	return uapi.HttpResponse{
		Status:  http.StatusNoContent,
		Headers: limit.Headers(),
	}
}
