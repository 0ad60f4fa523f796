package middleware

import (
	"net/http"
	"time"

	"github.com/ulule/limiter/v3"
	limiterstdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

func RateLimit(perMinute int) func(http.Handler) http.Handler {
	rate := limiter.Rate{Period: time.Minute, Limit: int64(perMinute)}
	instance := limiter.New(memory.NewStore(), rate)
	mw := limiterstdlib.NewMiddleware(instance)

	return func(next http.Handler) http.Handler {
		return mw.Handler(next)
	}
}
