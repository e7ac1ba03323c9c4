package auth

import "context"

type userKeyType struct{}

var userKey userKeyType

// User is the identity contract consumed from the session collaborator:
// the executive's code and display name, nothing more.
type User struct {
	EmployeeCode string
	DisplayName  string
}

func UserFromContext(ctx context.Context) (User, bool) {
	val := ctx.Value(userKey)
	if val == nil {
		return User{}, false
	}
	return val.(User), true
}

func MustHaveUser(ctx context.Context) User {
	user, found := UserFromContext(ctx)
	if !found {
		panic("middleware: missing user in context")
	}
	return user
}

func NewContext(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey, u)
}
