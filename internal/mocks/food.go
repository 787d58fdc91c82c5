package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/consultafit/nutriplan/backend/internal/models"
	"github.com/consultafit/nutriplan/backend/internal/service"
)

// FoodLookup is an in-memory FoodReferenceLookup for tests that exercise the
// meal engine without the food library behind it.
type FoodLookup struct {
	Foods map[uuid.UUID]*models.FoodReference
}

func NewFoodLookup(foods ...*models.FoodReference) *FoodLookup {
	m := &FoodLookup{Foods: make(map[uuid.UUID]*models.FoodReference)}
	for _, f := range foods {
		m.Foods[f.ID] = f
	}
	return m
}

func (m *FoodLookup) FindFood(_ context.Context, id uuid.UUID) (*models.FoodReference, error) {
	food, ok := m.Foods[id]
	if !ok {
		return nil, service.ErrFoodNotFound
	}
	return food, nil
}
