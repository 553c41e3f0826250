package pets

import "context"

// OwnerOf devuelve la fundación dueña de petID, o ErrNotFound.
// matches lo usa para autorizar a las partes de un match.
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.FoundationID, nil
}
