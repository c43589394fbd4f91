package services

import (
	"github.com/google/uuid"
	"github.com/stagecontrol/admin-user-services/internal/appconfig"
	"github.com/stagecontrol/admin-user-services/models"
)

// UserStore is the record store contract consumed by the user services.
type UserStore interface {
	FindUsers(q models.UserQuery) ([]models.User, error)
	CountUsers(f models.UserFilter) (int, error)
	InsertUser(req models.NewUser) (*models.User, error)
	UpdateUser(id uuid.UUID, upd models.UserUpdate) error
	DeleteUser(id uuid.UUID) error
}

// Service bundles the dependencies shared by the user services.
type Service struct {
	Config *appconfig.Config
	Store  UserStore
}
