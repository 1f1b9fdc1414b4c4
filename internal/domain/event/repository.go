package event

import (
	"context"
)

// Repository defines the operations for persisting and retrieving Event entities.
type Repository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id string) (*Event, error) // returns the deleted event
	ListAll(ctx context.Context) ([]*Event, error)
	Search(ctx context.Context, keyword string) ([]*Event, error) // title, description, location
	ListByCategory(ctx context.Context, category Category) ([]*Event, error)
	DeleteAll(ctx context.Context) error // used by the seed command
}
