package service

import (
	"context"

	"github.com/raffihq/recipe-api/internal/model"
	"github.com/raffihq/recipe-api/internal/server"
)

// AttributeStore is the subset of the attributes repository the
// service needs.
type AttributeStore interface {
	List(ctx context.Context, userID int64, assignedOnly bool) ([]model.Attribute, error)
	Update(ctx context.Context, id, userID int64, name string) (model.Attribute, error)
	Delete(ctx context.Context, id, userID int64) error
}

// AttributeService covers the tag and ingredient endpoints. One
// instance per attribute kind.
type AttributeService struct {
	server *server.Server
	store  AttributeStore
}

func NewAttributeService(s *server.Server, store AttributeStore) *AttributeService {
	return &AttributeService{
		server: s,
		store:  store,
	}
}

// List returns the user's attributes, name-descending. With
// assignedOnly set, only attributes attached to a recipe appear.
func (s *AttributeService) List(ctx context.Context, userID int64, assignedOnly bool) ([]model.Attribute, error) {
	return s.store.List(ctx, userID, assignedOnly)
}

// Update renames one of the user's attributes.
func (s *AttributeService) Update(ctx context.Context, id, userID int64, name string) (model.Attribute, error) {
	return s.store.Update(ctx, id, userID, name)
}

// Delete removes one of the user's attributes.
func (s *AttributeService) Delete(ctx context.Context, id, userID int64) error {
	return s.store.Delete(ctx, id, userID)
}
