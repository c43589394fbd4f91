package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	services "github.com/stagecontrol/admin-user-services/api/services"
	"github.com/stagecontrol/admin-user-services/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeStub struct {
	users []models.User
	total int
}

func (s *storeStub) FindUsers(q models.UserQuery) ([]models.User, error) {
	return s.users, nil
}

func (s *storeStub) CountUsers(f models.UserFilter) (int, error) {
	return s.total, nil
}

func (s *storeStub) InsertUser(req models.NewUser) (*models.User, error) {
	return &models.User{ID: uuid.New(), FullName: req.FullName, Email: req.Email, Role: req.Role}, nil
}

func (s *storeStub) UpdateUser(id uuid.UUID, upd models.UserUpdate) error {
	return nil
}

func (s *storeStub) DeleteUser(id uuid.UUID) error {
	return nil
}

func newRouter(store *storeStub) *mux.Router {
	service := &services.Service{Store: store}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/users", GetUsers(service)).Methods(http.MethodGet)
	api.HandleFunc("/users", CreateUser(service)).Methods(http.MethodPost)
	api.HandleFunc("/users", UpdateUser(service)).Methods(http.MethodPut)
	api.HandleFunc("/users", DeleteUser(service)).Methods(http.MethodDelete)
	return r
}

func TestUserRoutes_List(t *testing.T) {
	store := &storeStub{
		users: []models.User{{ID: uuid.New(), FullName: "Ann Lee", Email: "ann@x.com", Role: "Admin"}},
		total: 1,
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users?fullName=Ann", nil)
	w := httptest.NewRecorder()

	newRouter(store).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var page models.UserPage
	require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
	require.Len(t, page.Users, 1)
	assert.Equal(t, "Ann Lee", page.Users[0].FullName)
	assert.Equal(t, 1, page.Total)
}

func TestUserRoutes_Create(t *testing.T) {
	body, _ := json.Marshal(models.NewUser{FullName: "Ann Lee", Email: "ann@x.com", Role: "Admin"})
	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader(body))
	w := httptest.NewRecorder()

	newRouter(&storeStub{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestUserRoutes_UpdateAndDelete(t *testing.T) {
	router := newRouter(&storeStub{})

	body := []byte(`{"_id":"` + uuid.New().String() + `","role":"Moderator"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/users", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	body = []byte(`{"id":"` + uuid.New().String() + `"}`)
	req = httptest.NewRequest(http.MethodDelete, "/api/users", bytes.NewReader(body))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
