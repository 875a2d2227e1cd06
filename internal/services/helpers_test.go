package services

import (
	"context"

	"github.com/amrella/amrella-backend/internal/models"
	"github.com/amrella/amrella-backend/internal/policy"
	"github.com/google/uuid"
)

var ctx = context.Background()

func principal(role models.Role) *policy.Principal {
	return &policy.Principal{ID: uuid.New(), Email: string(role) + "@amrella.io", Role: role}
}

func ptr[T any](v T) *T {
	return &v
}
