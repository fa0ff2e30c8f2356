package patch_restriction

import (
	"errors"
	"net/http"
	"time"

	"github.com/cardinal-bot/cardinal/restrictions"
	"github.com/cardinal-bot/cardinal/state"
	"github.com/cardinal-bot/cardinal/types"
	"github.com/cardinal-bot/cardinal/webserver/webutils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/ratelimit"
	"github.com/infinitybotlist/eureka/uapi"
)

var compiledMessages = uapi.CompileValidationErrors(types.PatchRestriction{})

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Patch Command Restrictions",
		Description: "Adds a member, role or channel to the allow or deny set of a command, or removes it. Adding to one set removes the subject from the opposite set.",
		Req:         types.PatchRestriction{},
		Resp:        types.ApiError{},
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

	var body types.PatchRestriction

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

	kind, err := restrictions.ParseSubjectKind(body.Kind)

	if err != nil {
		return uapi.HttpResponse{
			Status: http.StatusBadRequest,
			Json:   types.ApiError{Message: err.Error()},
		}
	}

	action, err := restrictions.ParseAction(body.Action)

	if err != nil {
		return uapi.HttpResponse{
			Status: http.StatusBadRequest,
			Json:   types.ApiError{Message: err.Error()},
		}
	}

	var updated bool
	if body.Op == "remove" {
		updated = state.Restrictions.RemoveSubject(d.Context, guildId, command, kind, body.SubjectID, action)
	} else {
		updated = state.Restrictions.AddSubject(d.Context, guildId, command, kind, body.SubjectID, action)
	}

	if !updated {
		return uapi.HttpResponse{
			Status:  http.StatusInternalServerError,
			Json:    types.ApiError{Message: "Failed to update command restrictions"},
			Headers: limit.Headers(),
		}
	}

	return uapi.HttpResponse{
		Status:  http.StatusNoContent,
		Headers: limit.Headers(),
	}
}
