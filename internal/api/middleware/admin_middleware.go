package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/rj/api"
	er "github.com/RoyceAzure/rj/util/rj_error"
)

// AdminTokenMiddleware header 裡的 token 不符回 401
func AdminTokenMiddleware(token string) func(http.Handler) http.Handler {
	if token == "" {
		panic("admin token cannot be empty")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(constants.AdminTokenHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				api.ErrorJSON(w, int(er.UnauthenticatedCode), er.New(er.UnauthenticatedCode, "invalid admin token"), er.ErrStrMap[er.UnauthenticatedCode])
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
