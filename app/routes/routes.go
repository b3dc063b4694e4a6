package routes

import (
	"encoding/json"
	"net/http"

	"blogledger/app/controllers"
	"blogledger/app/middleware"
	"blogledger/app/services"

	"github.com/gorilla/mux"
)

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(service *services.BlogService) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.Principal)

	router.NotFoundHandler = jsonError("Not found", http.StatusNotFound)
	router.MethodNotAllowedHandler = jsonError("Method not allowed", http.StatusMethodNotAllowed)

	blogController := controllers.NewBlogController(service)
	postController := controllers.NewPostController(service)

	api := router.PathPrefix("/api").Subrouter()

	// Blogs API endpoints
	api.HandleFunc("/blogs", blogController.Create).Methods("POST")
	api.HandleFunc("/blogs/{blog}", blogController.Show).Methods("GET")
	api.HandleFunc("/authors/{author}/blog", blogController.ShowByAuthor).Methods("GET")
	api.HandleFunc("/accounts/{identity}/usage", blogController.Usage).Methods("GET")

	// Posts API endpoints
	api.HandleFunc("/blogs/{blog}/posts", postController.Index).Methods("GET")
	api.HandleFunc("/blogs/{blog}/posts", postController.Create).Methods("POST")

	posts := api.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("/{post}", postController.Show).Methods("GET")
	posts.HandleFunc("/{post}", postController.Update).Methods("PATCH")
	posts.HandleFunc("/{post}", postController.Delete).Methods("DELETE")
	posts.HandleFunc("/{post}/content", postController.AppendContent).Methods("POST")
	posts.HandleFunc("/{post}/content", postController.ReplaceContent).Methods("PUT")

	return router
}

func jsonError(message string, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": message})
	})
}
