package handlers

import (
	"net/http"

	_ "github.com/lib/pq"
	services "github.com/stagecontrol/admin-user-services/api/services"
)

func GetUsers(service *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		services.ListUsersService(service, w, r)
	}
}

func CreateUser(service *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		services.CreateUserService(service, w, r)
	}
}

func UpdateUser(service *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		services.UpdateUserService(service, w, r)
	}
}

func DeleteUser(service *services.Service) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		services.DeleteUserService(service, w, r)
	}
}
