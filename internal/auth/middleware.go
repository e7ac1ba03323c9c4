package auth

import "net/http"

const (
	employeeCodeHeader = "X-Employee-Code"
	displayNameHeader  = "X-Display-Name"
)

// Middleware lifts the identity asserted by the session gateway into the
// request context. Session handling itself lives outside this service; the
// gateway is trusted to have authenticated the headers.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := r.Header.Get(employeeCodeHeader)
		if code == "" {
			http.Error(w, "missing employee code", http.StatusUnauthorized)
			return
		}
		user := User{
			EmployeeCode: code,
			DisplayName:  r.Header.Get(displayNameHeader),
		}
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), user)))
	})
}
