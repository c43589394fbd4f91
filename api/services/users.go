package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stagecontrol/admin-user-services/db"
	"github.com/stagecontrol/admin-user-services/models"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// parseListingQuery translates the request's query parameters into a store
// query. Pages are 1-based on the wire; "name" is accepted as a legacy alias
// for the fullName filter.
func parseListingQuery(r *http.Request) models.UserQuery {
	params := r.URL.Query()

	page, err := strconv.Atoi(params.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(params.Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	fullName := params.Get("fullName")
	if fullName == "" {
		fullName = params.Get("name")
	}

	sortKey := params.Get("sort")
	if sortKey == "" {
		sortKey = "fullName"
	}
	direction := params.Get("direction")
	if direction == "" {
		direction = "asc"
	}

	return models.UserQuery{
		Filter: models.UserFilter{
			FullName: fullName,
			Email:    params.Get("email"),
			Role:     params.Get("role"),
		},
		SortKey:       sortKey,
		SortDirection: direction,
		Skip:          (page - 1) * limit,
		Limit:         limit,
	}
}

// ListUsersService retrieves one page of users plus the total match count for
// the same filter, so callers can derive the page count.
func ListUsersService(svc *Service, w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	query := parseListingQuery(r)

	users, err := svc.Store.FindUsers(query)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to retrieve users from store")
		WriteResponse(w, http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	// Ensure users is not nil, return an empty slice if no users are found
	if users == nil {
		users = []models.User{}
	}

	total, err := svc.Store.CountUsers(query.Filter)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to count users in store")
		WriteResponse(w, http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	logger.Info().Int("user_count", len(users)).Int("total", total).Msg("Successfully retrieved users")
	WriteResponse(w, http.StatusOK, models.UserPage{Users: users, Total: total})
}

// CreateUserService inserts a new user record and returns it with its
// store-assigned ID.
func CreateUserService(svc *Service, w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	var payload models.NewUser
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logger.Warn().Err(err).Msg("Invalid request payload")
		WriteResponse(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request payload"})
		return
	}

	if payload.FullName == "" || payload.Email == "" || payload.Role == "" {
		logger.Warn().Msg("Create request missing required fields")
		WriteResponse(w, http.StatusBadRequest, models.ErrorResponse{Error: "Full Name, Email, and Role are required"})
		return
	}

	user, err := svc.Store.InsertUser(payload)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to insert user in store")
		WriteResponse(w, http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	logger.Info().Str("user_id", user.ID.String()).Msg("User created successfully")

	var location = fmt.Sprintf("%s/%s", r.URL.Path, user.ID)
	WriteResponse(w, http.StatusCreated, *user, location)
}

type updateUserRequest struct {
	ID       string  `json:"_id"`
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
}

// UpdateUserService replaces the named fields of an existing user. Fields
// absent from the payload keep their stored value.
func UpdateUserService(svc *Service, w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	var payload updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logger.Warn().Err(err).Msg("Invalid update request payload")
		WriteResponse(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request payload"})
		return
	}

	if payload.ID == "" {
		logger.Warn().Msg("Update request missing user ID")
		WriteResponse(w, http.StatusBadRequest, models.ErrorResponse{Error: "ID is required"})
		return
	}

	userID, err := uuid.Parse(payload.ID)
	if err != nil {
		logger.Warn().Err(err).Str("user_id", payload.ID).Msg("Malformed user ID")
		WriteResponse(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid user ID"})
		return
	}

	upd := models.UserUpdate{
		FullName: payload.FullName,
		Email:    payload.Email,
		Role:     payload.Role,
	}

	if err := svc.Store.UpdateUser(userID, upd); err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			logger.Warn().Str("user_id", userID.String()).Msg("User not found")
			WriteResponse(w, http.StatusBadRequest, models.ErrorResponse{Error: "User not found"})
			return
		}
		logger.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to update user in store")
		WriteResponse(w, http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	logger.Info().Str("user_id", userID.String()).Msg("User updated successfully")
	WriteResponse(w, http.StatusOK, models.MessageResponse{Message: "User updated"})
}

type deleteUserRequest struct {
	ID string `json:"id"`
}

// DeleteUserService removes a user by ID. Deleting an ID that no longer
// exists still succeeds.
func DeleteUserService(svc *Service, w http.ResponseWriter, r *http.Request) {

	logger := zerolog.Ctx(r.Context())

	var payload deleteUserRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logger.Warn().Err(err).Msg("Invalid delete request payload")
		WriteResponse(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request payload"})
		return
	}

	if payload.ID == "" {
		logger.Warn().Msg("Delete request missing user ID")
		WriteResponse(w, http.StatusBadRequest, models.ErrorResponse{Error: "ID is required"})
		return
	}

	userID, err := uuid.Parse(payload.ID)
	if err != nil {
		logger.Warn().Err(err).Str("user_id", payload.ID).Msg("Malformed user ID")
		WriteResponse(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid user ID"})
		return
	}

	if err := svc.Store.DeleteUser(userID); err != nil {
		logger.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to delete user in store")
		WriteResponse(w, http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	logger.Info().Str("user_id", userID.String()).Msg("User deleted successfully")
	WriteResponse(w, http.StatusOK, models.MessageResponse{Message: "User deleted"})
}
