package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// 管理画面に入れるロール
var AdminRoles = []string{"OWNER", "ADMIN"}

// contextに入っているroleが許可リストにあるか確認する。
func RoleGuard(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if !allowed[role] {
				return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
			}
			return next(c)
		}
	}
}
