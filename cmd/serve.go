package cmd

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/stagecontrol/admin-user-services/api/handlers"
	"github.com/stagecontrol/admin-user-services/api/middleware"
	"github.com/stagecontrol/admin-user-services/api/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server for handling API requests",
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config, initialize the database and set up logging
		commonSetUp()
		defer usersDB.Close()

		// Create routes
		r := mux.NewRouter()

		service := &services.Service{
			Config: appCfg,
			Store:  usersDB,
		}

		// Register the routes
		api := r.PathPrefix(appCfg.BasePath).Subrouter()

		// Apply the middleware to the API routes
		api.Use(middleware.WithLogger)

		// User routes
		api.HandleFunc("/users", handlers.GetUsers(service)).Methods(http.MethodGet)
		api.HandleFunc("/users", handlers.CreateUser(service)).Methods(http.MethodPost)
		api.HandleFunc("/users", handlers.UpdateUser(service)).Methods(http.MethodPut)
		api.HandleFunc("/users", handlers.DeleteUser(service)).Methods(http.MethodDelete)

		log.Info().Msg(fmt.Sprintf("Server started at %s:%d", host, port))

		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", host, port),
			r); err != nil {

			log.Error().Err(err).Msg("could not start server")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&host, "host", "0.0.0.0", "host to run the server on")
	serveCmd.Flags().IntVar(&port, "port", 8080, "port to run the server on")
}
