package users

import (
	"github.com/cardinal-bot/cardinal/types"
	"github.com/cardinal-bot/cardinal/webserver/routes/users/endpoints/get_me"
	"github.com/cardinal-bot/cardinal/webserver/routes/users/endpoints/get_user_guilds"
	"github.com/go-chi/chi/v5"
	"github.com/infinitybotlist/eureka/uapi"
)

const tagName = "Users"

type Router struct{}

func (b Router) Tag() (string, string) {
	return tagName, "These API endpoints are related to Cardinal dashboard users"
}

func (b Router) Routes(r *chi.Mux) {
	uapi.Route{
		Pattern: "/users/@me",
		OpId:    "get_me",
		Method:  uapi.GET,
		Docs:    get_me.Docs,
		Handler: get_me.Route,
		Auth: []uapi.AuthType{
			{
				Type: types.TargetTypeUser,
			},
		},
	}.Route(r)

	uapi.Route{
		Pattern: "/users/@me/guilds",
		OpId:    "get_user_guilds",
		Method:  uapi.GET,
		Docs:    get_user_guilds.Docs,
		Handler: get_user_guilds.Route,
		Auth: []uapi.AuthType{
			{
				Type: types.TargetTypeUser,
			},
		},
	}.Route(r)
}
