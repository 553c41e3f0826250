package users

import (
	"context"
	"errors"

	"pet-adoption-match/internal/ports/auth"
)

// PrincipalOf resuelve el sujeto de un token. Lo usa middleware.RequireUser
// sin importar este paquete.
func (s *Service) PrincipalOf(ctx context.Context, userID string) (auth.Principal, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return auth.Principal{}, ErrNotFound
		}
		return auth.Principal{}, err
	}
	return auth.Principal{
		ID:    u.ID,
		Email: u.Email,
		Role:  u.Role,
	}, nil
}
