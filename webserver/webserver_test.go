package webserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorsMiddleware(t *testing.T) {
	var gotAuth string
	h := corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/users/@me", nil)
	req.Header.Set("User-Auth", "abc")
	req.Header.Set("Origin", "https://cardinal.bot")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "User abc", gotAuth)
	assert.Equal(t, "https://cardinal.bot", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	req = httptest.NewRequest(http.MethodGet, "/guilds/1/automod", nil)
	req.Header.Set("Bot-Auth", "Bot xyz")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "Bot xyz", gotAuth)

	gotAuth = ""
	req = httptest.NewRequest(http.MethodOptions, "/guilds/1/automod", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, gotAuth)
	assert.Equal(t, http.StatusOK, rec.Code)
}
