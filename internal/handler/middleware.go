package handler

import (
	"net/http"
	"strings"

	"github.com/blues/aidlink/internal/auth"
	"github.com/blues/aidlink/internal/model"
	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// AuthMiddleware 校验 Bearer 令牌，可选限定角色
func AuthMiddleware(issuer *auth.Issuer, roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			// 浏览器 WebSocket 无法设置请求头，允许通过查询参数传递
			token = c.Query("token")
		}
		if token == "" {
			ErrorResponse(c, http.StatusUnauthorized, "Missing token")
			c.Abort()
			return
		}

		claims, err := issuer.Validate(token)
		if err != nil {
			ErrorResponse(c, http.StatusUnauthorized, "Invalid token")
			c.Abort()
			return
		}

		if len(roles) > 0 && !hasRole(claims.Role, roles) {
			ErrorResponse(c, http.StatusForbidden, "Forbidden")
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func hasRole(role model.Role, roles []model.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// ClaimsFrom 获取当前请求的令牌声明
func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
