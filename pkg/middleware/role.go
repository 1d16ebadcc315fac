package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ivpetrov/price-history-api/internal/domain"
	"github.com/ivpetrov/price-history-api/pkg/apiErrors"
)

// Роли на потребителите
const (
	RoleAdmin  = 1
	RoleViewer = 2
)

// RoleMiddleware ограничава достъпа до маршрута по роля
func RoleMiddleware(allowedRoles []int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userClaims, ok := r.Context().Value(ContextKeyUser).(*domain.Claims)

			if !ok {
				logrus.Warning("Опит за достъп без автентикация")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Потребителят не е автентикиран", nil)
				return
			}

			isAllowed := false
			for _, role := range allowedRoles {
				if userClaims.UserRoleID == role {
					isAllowed = true
					break
				}
			}

			if !isAllowed {
				logrus.Warningf("Отказан достъп за потребител ID=%d, Role=%d", userClaims.UserID, userClaims.UserRoleID)
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Нямате права за този ресурс", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly пуска само администратори
func AdminOnly() func(http.Handler) http.Handler {
	return RoleMiddleware([]int{RoleAdmin})
}

// AllRoles пуска всички автентикирани потребители
func AllRoles() func(http.Handler) http.Handler {
	return RoleMiddleware([]int{RoleAdmin, RoleViewer})
}
