package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer firma un token para un usuario recién autenticado.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// PrincipalLookup resuelve el sujeto del token contra el store de usuarios.
type PrincipalLookup interface {
	PrincipalOf(ctx context.Context, userID string) (Principal, error)
}
