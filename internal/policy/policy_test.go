package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vidtube/internal/apperr"
	"vidtube/internal/model"
)

func TestAuthorize(t *testing.T) {
	owner := &model.User{ID: 1}
	other := &model.User{ID: 2}

	entities := map[string]Owned{
		"video":    &model.Video{OwnerID: 1},
		"comment":  &model.Comment{OwnerID: 1},
		"tweet":    &model.Tweet{OwnerID: 1},
		"playlist": &model.Playlist{OwnerID: 1},
	}

	for name, entity := range entities {
		t.Run(name, func(t *testing.T) {
			assert.True(t, CanMutate(owner, entity))
			assert.NoError(t, Authorize(owner, entity, nil))

			assert.False(t, CanMutate(other, entity))
			err := Authorize(other, entity, nil)
			assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

			err = Authorize(nil, entity, nil)
			assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))
		})
	}
}

func TestAuthorize_UsesProvidedError(t *testing.T) {
	err := Authorize(&model.User{ID: 9}, &model.Video{OwnerID: 1}, model.ErrNotVideoOwner)

	assert.ErrorIs(t, err, model.ErrNotVideoOwner)
}
