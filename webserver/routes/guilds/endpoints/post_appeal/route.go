package post_appeal

import (
	"errors"
	"net/http"
	"time"

	"github.com/cardinal-bot/cardinal/db"
	"github.com/cardinal-bot/cardinal/state"
	"github.com/cardinal-bot/cardinal/types"
	"github.com/cardinal-bot/cardinal/webserver/webutils"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/ratelimit"
	"github.com/infinitybotlist/eureka/uapi"
)

var (
	compiledMessages = uapi.CompileValidationErrors(types.CreateAppeal{})
	appealCols       = db.ColsString(types.Appeal{})
)

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Create Appeal",
		Description: "Submits an appeal against a mute or ban in a guild",
		Req:         types.CreateAppeal{},
		Resp:        types.Appeal{},
		Params: []docs.Parameter{
			{
				Name:        "guild_id",
				Description: "The guild the appeal is for",
				In:          "path",
				Required:    true,
				Schema:      docs.IdSchema,
			},
		},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	limit, hresp, ok := webutils.Ratelimit(d, r, ratelimit.Ratelimit{
		Expiry:      10 * time.Minute,
		MaxRequests: 3,
		Bucket:      "post_appeal",
	})

	if !ok {
		return hresp
	}

	guildId, hresp, ok := webutils.GuildID(r, "guild_id")

	if !ok {
		return hresp
	}

	var body types.CreateAppeal

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

	if body.GuildID != guildId {
		return uapi.HttpResponse{
			Status: http.StatusBadRequest,
			Json:   types.ApiError{Message: "guild_id in the body does not match the path"},
		}
	}

	rows, err := state.Pool.Query(
		d.Context,
		"INSERT INTO appeals (id, guild_id, user_id, mute_or_ban, reason, appeal, extra) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING "+appealCols,
		body.ID,
		body.GuildID,
		body.UserID,
		body.MuteOrBan,
		body.Reason,
		body.Appeal,
		body.Extra,
	)

	if err != nil {
		state.Logger.Error("Failed to insert appeal", zap.Error(err))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	appeal, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[types.Appeal])

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uapi.HttpResponse{
				Status: http.StatusConflict,
				Json:   types.ApiError{Message: "An appeal with this id already exists"},
			}
		}

		state.Logger.Error("Failed to insert appeal", zap.Error(err), zap.String("guildId", guildId))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	return uapi.HttpResponse{
		Json:    appeal,
		Headers: limit.Headers(),
	}
}
