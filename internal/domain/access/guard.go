// Package access concentra las reglas de rol y ownership que comparten
// pets, matches, appointments y chats. Todas las funciones son puras: el
// caller trae los recursos ya resueltos (la existencia se verifica antes).
package access

import (
	"errors"
	"strings"

	"pet-adoption-match/internal/ports/auth"
)

var (
	ErrForbidden         = errors.New("forbidden")
	ErrIncompleteProfile = errors.New("personality traits required before swiping")
)

// Party indica desde qué lado del match actúa el usuario.
type Party string

const (
	PartyAdopter    Party = "user"
	PartyFoundation Party = "foundation"
)

// ManagePets: crear y listar las mascotas propias.
func ManagePets(actor auth.Principal) error {
	if actor.Role != auth.RoleFoundation {
		return ErrForbidden
	}
	return nil
}

// OwnPet: actualizar o eliminar una mascota existente.
func OwnPet(actor auth.Principal, foundationID string) error {
	if err := ManagePets(actor); err != nil {
		return err
	}
	if strings.TrimSpace(foundationID) == "" || foundationID != actor.ID {
		return ErrForbidden
	}
	return nil
}

// BrowsePets: listado de mascotas disponibles.
func BrowsePets(actor auth.Principal) error {
	if actor.Role != auth.RoleAdopter {
		return ErrForbidden
	}
	return nil
}

// Swipe: like/pass. El rol se evalúa antes que el perfil.
func Swipe(actor auth.Principal, hasTraits bool) error {
	if actor.Role != auth.RoleAdopter {
		return ErrForbidden
	}
	if !hasTraits {
		return ErrIncompleteProfile
	}
	return nil
}

// MatchParty autoriza accept, citas y chat sobre un match.
// petFoundationID vacío (mascota eliminada) nunca autoriza a una fundación.
func MatchParty(actor auth.Principal, matchAdopterID, petFoundationID string) (Party, error) {
	switch actor.Role {
	case auth.RoleAdopter:
		if matchAdopterID != "" && matchAdopterID == actor.ID {
			return PartyAdopter, nil
		}
	case auth.RoleFoundation:
		if petFoundationID != "" && petFoundationID == actor.ID {
			return PartyFoundation, nil
		}
	}
	return "", ErrForbidden
}
