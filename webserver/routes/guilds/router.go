package guilds

import (
	"github.com/cardinal-bot/cardinal/types"
	"github.com/cardinal-bot/cardinal/webserver/api"
	"github.com/cardinal-bot/cardinal/webserver/routes/guilds/endpoints/delete_restriction"
	"github.com/cardinal-bot/cardinal/webserver/routes/guilds/endpoints/get_automod"
	"github.com/cardinal-bot/cardinal/webserver/routes/guilds/endpoints/get_restriction"
	"github.com/cardinal-bot/cardinal/webserver/routes/guilds/endpoints/get_restrictions"
	"github.com/cardinal-bot/cardinal/webserver/routes/guilds/endpoints/patch_automod"
	"github.com/cardinal-bot/cardinal/webserver/routes/guilds/endpoints/patch_restriction"
	"github.com/cardinal-bot/cardinal/webserver/routes/guilds/endpoints/post_appeal"
	"github.com/go-chi/chi/v5"
	"github.com/infinitybotlist/eureka/uapi"
)

const tagName = "Guilds"

type Router struct{}

func (b Router) Tag() (string, string) {
	return tagName, "These API endpoints are related to guild configuration and appeals"
}

// Bot tokens, or user tokens that can manage the guild
var manageAuth = []uapi.AuthType{
	{
		Type: types.TargetTypeBot,
	},
	{
		Type: types.TargetTypeUser,
	},
}

var manageExt = map[string]any{
	api.MANAGE_GUILD_KEY: "guild_id",
}

func (b Router) Routes(r *chi.Mux) {
	uapi.Route{
		Pattern: "/guilds/{guild_id}/appeals",
		OpId:    "post_appeal",
		Method:  uapi.POST,
		Docs:    post_appeal.Docs,
		Handler: post_appeal.Route,
	}.Route(r)

	uapi.Route{
		Pattern: "/guilds/{guild_id}/restrictions",
		OpId:    "get_restrictions",
		Method:  uapi.GET,
		Docs:    get_restrictions.Docs,
		Handler: get_restrictions.Route,
		Auth:    manageAuth,
		ExtData: manageExt,
	}.Route(r)

	uapi.Route{
		Pattern: "/guilds/{guild_id}/restrictions/{command}",
		OpId:    "get_restriction",
		Method:  uapi.GET,
		Docs:    get_restriction.Docs,
		Handler: get_restriction.Route,
		Auth:    manageAuth,
		ExtData: manageExt,
	}.Route(r)

	uapi.Route{
		Pattern: "/guilds/{guild_id}/restrictions/{command}",
		OpId:    "patch_restriction",
		Method:  uapi.PATCH,
		Docs:    patch_restriction.Docs,
		Handler: patch_restriction.Route,
		Auth:    manageAuth,
		ExtData: manageExt,
	}.Route(r)

	uapi.Route{
		Pattern: "/guilds/{guild_id}/restrictions/{command}",
		OpId:    "delete_restriction",
		Method:  uapi.DELETE,
		Docs:    delete_restriction.Docs,
		Handler: delete_restriction.Route,
		Auth:    manageAuth,
		ExtData: manageExt,
	}.Route(r)

	uapi.Route{
		Pattern: "/guilds/{guild_id}/automod",
		OpId:    "get_automod",
		Method:  uapi.GET,
		Docs:    get_automod.Docs,
		Handler: get_automod.Route,
		Auth:    manageAuth,
		ExtData: manageExt,
	}.Route(r)

	uapi.Route{
		Pattern: "/guilds/{guild_id}/automod",
		OpId:    "patch_automod",
		Method:  uapi.PATCH,
		Docs:    patch_automod.Docs,
		Handler: patch_automod.Route,
		Auth:    manageAuth,
		ExtData: manageExt,
	}.Route(r)
}
