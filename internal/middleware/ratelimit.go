package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-demi/demi-bank/pkg/configpkg"
	"github.com/go-demi/demi-bank/pkg/tokenpkg"
	"github.com/go-demi/demi-bank/pkg/web"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var errTooManyRequests = errors.New("too many requests, try again later")

// RateLimit bounds request frequency per actor and route with a fixed
// window counter in redis.
//
// The limiter is advisory traffic shaping only. Counter errors fail open
// and a nil client disables limiting entirely; correctness of money
// movements never depends on it.
func RateLimit(client *redis.Client, config configpkg.Config) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		if client == nil || config.RateLimitQuota <= 0 {
			gctx.Next()
			return
		}

		ctx := gctx.Request.Context()
		l := zerolog.Ctx(ctx)

		actor := gctx.ClientIP()
		if payload, ok := gctx.Get(AuthPayloadKey); ok {
			actor = payload.(*tokenpkg.Payload).Username
		}

		key := fmt.Sprintf("ratelimit:%s:%s", actor, gctx.FullPath())

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			l.Warn().Err(err).Msg("rate limit counter unavailable")
			gctx.Next()

			return
		}

		if count == 1 {
			if err := client.Expire(ctx, key, config.RateLimitWindow).Err(); err != nil {
				l.Warn().Err(err).Msg("rate limit expiry failed")
			}
		}

		if count > int64(config.RateLimitQuota) {
			gctx.AbortWithStatusJSON(http.StatusTooManyRequests, web.Error(errTooManyRequests))
			return
		}

		gctx.Next()
	}
}
