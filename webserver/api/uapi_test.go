package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cardinal-bot/cardinal/types"
	"github.com/go-chi/chi/v5"
	"github.com/infinitybotlist/eureka/uapi"
	"github.com/stretchr/testify/assert"
)

func guildRequest(guildId string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/guilds/"+guildId+"/restrictions", nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("guild_id", guildId)

	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestAuthorizeRejectsBadGuildId(t *testing.T) {
	route := uapi.Route{
		Auth:    []uapi.AuthType{{Type: types.TargetTypeBot}, {Type: types.TargetTypeUser}},
		ExtData: map[string]any{MANAGE_GUILD_KEY: "guild_id"},
	}

	// bot tokens skip the manage check, so the id is checked before any token
	for _, guildId := range []string{"1-2", "110000000000000001-ban", "guild"} {
		req := guildRequest(guildId)
		req.Header.Set("Authorization", "Bot token")

		_, hresp, ok := Authorize(route, req)
		assert.False(t, ok, guildId)
		assert.Equal(t, http.StatusBadRequest, hresp.Status, guildId)
	}
}

func TestAuthorizeAcceptsSnowflake(t *testing.T) {
	route := uapi.Route{
		ExtData: map[string]any{MANAGE_GUILD_KEY: "guild_id"},
	}

	_, _, ok := Authorize(route, guildRequest("110000000000000001"))
	assert.True(t, ok)
}
