// Binds onto eureka uapi
package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/cardinal-bot/cardinal/state"
	"github.com/cardinal-bot/cardinal/types"
	"github.com/cardinal-bot/cardinal/webserver/constants"
	"github.com/cardinal-bot/cardinal/webserver/webutils"

	"github.com/go-chi/chi/v5"
	"github.com/infinitybotlist/eureka/uapi"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

// MANAGE_GUILD_KEY marks routes where user tokens must be able to manage the
// guild named by the given URL variable
const MANAGE_GUILD_KEY = "manageGuild"

type DefaultResponder struct{}

func (d DefaultResponder) New(err string, ctx map[string]string) any {
	return types.ApiError{
		Message: err,
		Context: ctx,
	}
}

func authorizeBot(authHeader string) (uapi.AuthData, bool) {
	token := strings.TrimPrefix(authHeader, "Bot ")
	if token == authHeader {
		return uapi.AuthData{}, false
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(state.Config.DiscordAuth.Token.Parse())) != 1 {
		return uapi.AuthData{}, false
	}

	return uapi.AuthData{
		TargetType: types.TargetTypeBot,
		ID:         state.BotUser.ID,
		Authorized: true,
	}, true
}

func authorizeUser(req *http.Request, authHeader string) (uapi.AuthData, bool) {
	// Delete old/expiring auths first
	_, err := state.Pool.Exec(state.Context, "DELETE FROM web_api_tokens WHERE expiry < NOW()")

	if err != nil {
		state.Logger.Error("Failed to delete expired web API tokens [db delete]", zap.Error(err))
	}

	var id pgtype.Text
	var sessId string

	err = state.Pool.QueryRow(req.Context(), "SELECT id, user_id FROM web_api_tokens WHERE token = $1", strings.TrimPrefix(authHeader, "User ")).Scan(&sessId, &id)

	if err != nil || !id.Valid {
		return uapi.AuthData{}, false
	}

	var userstate string

	err = state.Pool.QueryRow(req.Context(), "SELECT state FROM users WHERE user_id = $1", id.String).Scan(&userstate)

	if err != nil {
		state.Logger.Error("Failed to get user state", zap.Error(err))
		return uapi.AuthData{}, false
	}

	return uapi.AuthData{
		TargetType: types.TargetTypeUser,
		ID:         id.String,
		Authorized: true,
		Banned:     userstate == "banned" || userstate == "api_banned",
		Data: map[string]any{
			"session_id": sessId,
		},
	}, true
}

// Authorizes a request
func Authorize(r uapi.Route, req *http.Request) (uapi.AuthData, uapi.HttpResponse, bool) {
	authHeader := req.Header.Get("Authorization")

	if len(r.Auth) > 0 && authHeader == "" && !r.AuthOptional {
		return uapi.AuthData{}, uapi.DefaultResponse(http.StatusUnauthorized), false
	}

	if urlVar, ok := r.ExtData[MANAGE_GUILD_KEY].(string); ok {
		if _, hresp, ok := webutils.GuildID(req, urlVar); !ok {
			return uapi.AuthData{}, hresp, false
		}
	}

	authData := uapi.AuthData{}

	for _, auth := range r.Auth {
		if authData.Authorized {
			break
		}

		if authHeader == "" {
			continue
		}

		var ok bool
		switch auth.Type {
		case types.TargetTypeBot:
			authData, ok = authorizeBot(authHeader)
		case types.TargetTypeUser:
			authData, ok = authorizeUser(req, authHeader)
		}

		if !ok {
			continue
		}

		// Now handle the URLVar
		if auth.URLVar != "" && authData.TargetType == types.TargetTypeUser {
			if chi.URLParam(req, auth.URLVar) != authData.ID {
				authData = uapi.AuthData{}
				continue
			}
		}

		// Banned users cannot use the API at all otherwise if not explicitly scoped to "ban_exempt"
		if authData.Banned && auth.AllowedScope != "ban_exempt" {
			return uapi.AuthData{}, uapi.HttpResponse{
				Status: http.StatusForbidden,
				Json:   types.ApiError{Message: "You are banned from Cardinal. If you think this is a mistake, please contact support."},
			}, false
		}

		if urlVar, ok := r.ExtData[MANAGE_GUILD_KEY].(string); ok && authData.TargetType == types.TargetTypeUser {
			guildId := chi.URLParam(req, urlVar)

			canManage, err := webutils.CanManageGuild(req.Context(), guildId, authData.ID)

			if err != nil {
				state.Logger.Error("Failed to check guild permissions", zap.Error(err), zap.String("guildId", guildId))
				return uapi.AuthData{}, uapi.HttpResponse{
					Status: http.StatusInternalServerError,
					Json:   types.ApiError{Message: "Failed to check your permissions in this guild"},
					Headers: map[string]string{
						"Retry-After": "10",
					},
				}, false
			}

			if !canManage {
				return uapi.AuthData{}, uapi.HttpResponse{
					Status: http.StatusForbidden,
					Json:   types.ApiError{Message: "You need to be the owner or an administrator of this guild"},
					Headers: map[string]string{
						"X-Error-Type": "permission_check",
					},
				}, false
			}
		}
	}

	if len(r.Auth) > 0 && !authData.Authorized && !r.AuthOptional {
		return uapi.AuthData{}, uapi.DefaultResponse(http.StatusUnauthorized), false
	}

	return authData, uapi.HttpResponse{}, true
}

func Setup() {
	uapi.SetupState(uapi.UAPIState{
		Logger:    state.Logger,
		Authorize: Authorize,
		AuthTypeMap: map[string]string{
			types.TargetTypeUser: types.TargetTypeUser,
			types.TargetTypeBot:  types.TargetTypeBot,
		},
		Context: state.Context,
		Constants: &uapi.UAPIConstants{
			ResourceNotFound:    constants.ResourceNotFound,
			BadRequest:          constants.BadRequest,
			Forbidden:           constants.Forbidden,
			Unauthorized:        constants.Unauthorized,
			InternalServerError: constants.InternalServerError,
			MethodNotAllowed:    constants.MethodNotAllowed,
			BodyRequired:        constants.BodyRequired,
		},
		DefaultResponder: DefaultResponder{},
	})
}
