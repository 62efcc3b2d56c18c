package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/nimbuslabs/nimbus-vps-service/config"
	"github.com/nimbuslabs/nimbus-vps-service/infra"
	"github.com/nimbuslabs/nimbus-vps-service/utils"
)

// AuthMiddleware resolves the bearer token against the identity provider
// on every request. The resolved account (including its credit balance)
// is cached in redis for a short TTL, keyed by an HMAC of the token, and
// stored in the gin context for the handlers.
func AuthMiddleware(identityService *infra.IdentityService, redis *infra.RedisClient, config *config.EnvConfig) gin.HandlerFunc {
	cacheTTL := identityCacheTTL(config)

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		tokenStr := utils.ExtractToken(c)
		if tokenStr == "" {
			utils.JSON401(c, "Missing or invalid Authorization header")
			c.Abort()
			return
		}

		cacheKey := "identity:" + utils.TokenFingerprint(config.JWT.SecretKey, tokenStr)

		var account *infra.AccountIdentity
		if redis != nil {
			var cached infra.AccountIdentity
			if err := redis.Get(ctx, cacheKey, &cached); err == nil {
				account = &cached
			}
		}

		if account == nil {
			verified, err := identityService.VerifyToken(ctx, tokenStr)
			if err != nil {
				utils.JSON401(c, "Invalid or expired token")
				c.Abort()
				return
			}
			account = verified
			if redis != nil {
				_ = redis.Set(ctx, cacheKey, account, cacheTTL)
			}
		}

		parsedToken, err := utils.ParseToken(tokenStr, config)
		if err != nil || !parsedToken.Valid {
			utils.JSON401(c, "Invalid token")
			c.Abort()
			return
		}

		claims, ok := parsedToken.Claims.(jwt.MapClaims)
		if !ok {
			utils.JSON401(c, "Invalid token claims")
			c.Abort()
			return
		}
		if err := utils.InjectClaimsToContext(c, claims); err != nil {
			utils.JSON401(c, "Invalid claims")
			c.Abort()
			return
		}

		c.Set("account", account)
		c.Next()
	}
}

func identityCacheTTL(config *config.EnvConfig) (ttl time.Duration) {
	return time.Duration(config.Identity.CacheTTL) * time.Second
}
