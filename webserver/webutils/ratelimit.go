package webutils

import (
	"net/http"

	"github.com/cardinal-bot/cardinal/state"
	"github.com/cardinal-bot/cardinal/types"
	"github.com/infinitybotlist/eureka/ratelimit"
	"github.com/infinitybotlist/eureka/uapi"
	"go.uber.org/zap"
)

// Ratelimit applies rl to the request. When ok is false hresp must be returned as is.
func Ratelimit(d uapi.RouteData, r *http.Request, rl ratelimit.Ratelimit) (limit *ratelimit.Limit, hresp uapi.HttpResponse, ok bool) {
	l, err := rl.Limit(d.Context, r)

	if err != nil {
		state.Logger.Error("Error while ratelimiting", zap.Error(err), zap.String("bucket", rl.Bucket))
		return nil, uapi.DefaultResponse(http.StatusInternalServerError), false
	}

	limit = &l

	if limit.Exceeded {
		return limit, uapi.HttpResponse{
			Json: types.ApiError{
				Message: "You are being ratelimited. Please try again in " + limit.TimeToReset.String(),
			},
			Headers: limit.Headers(),
			Status:  http.StatusTooManyRequests,
		}, false
	}

	return limit, uapi.HttpResponse{}, true
}
