// Package policy holds ownership checks applied before mutations.
package policy

import (
	"vidtube/internal/apperr"
	"vidtube/internal/model"
)

// Owned is any entity with an owner reference.
type Owned interface {
	OwnerRef() int64
}

// CanMutate reports whether identity owns entity. A nil identity never does.
func CanMutate(identity *model.User, entity Owned) bool {
	if identity == nil || entity == nil {
		return false
	}
	return entity.OwnerRef() == identity.ID
}

// Authorize returns denied (or a generic Forbidden) when identity may not
// mutate entity. An absent identity is Unauthorized, not Forbidden.
func Authorize(identity *model.User, entity Owned, denied *apperr.Error) error {
	if identity == nil {
		return model.ErrTokenMissing
	}
	if CanMutate(identity, entity) {
		return nil
	}
	if denied != nil {
		return denied
	}
	return apperr.New(apperr.Forbidden, "forbidden")
}
