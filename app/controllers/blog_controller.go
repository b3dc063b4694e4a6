package controllers

import (
	"encoding/json"
	"net/http"

	"blogledger/app/middleware"
	"blogledger/app/models"
	"blogledger/app/services"
)

// BlogController handles HTTP requests for blogs and account usage
type BlogController struct {
	blogService *services.BlogService
}

// NewBlogController creates a new BlogController
func NewBlogController(service *services.BlogService) *BlogController {
	return &BlogController{blogService: service}
}

// SetService sets the blog service for testing
func (bc *BlogController) SetService(service *services.BlogService) {
	bc.blogService = service
}

type createBlogRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// blogResponse adds the derived address to a blog
type blogResponse struct {
	Address models.Address `json:"address"`
	*models.Blog
}

// Create handles creating the caller's blog
func (bc *BlogController) Create(w http.ResponseWriter, r *http.Request) {
	author, ok := middleware.AuthorFrom(r.Context())
	if !ok {
		bc.sendError(w, errMissingAuthor.Error(), http.StatusUnauthorized)
		return
	}

	var req createBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		bc.sendError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	blog, err := bc.blogService.CreateBlog(r.Context(), author, req.Title, req.Description)
	if err != nil {
		bc.sendServiceError(w, r, err)
		return
	}

	bc.sendJSON(w, http.StatusCreated, blogResponse{Address: blog.Address(), Blog: blog})
}

// Show handles displaying a blog by address
func (bc *BlogController) Show(w http.ResponseWriter, r *http.Request) {
	addr, err := addressVar(r, "blog")
	if err != nil {
		bc.sendError(w, "Invalid blog address", http.StatusBadRequest)
		return
	}

	blog, err := bc.blogService.GetBlog(r.Context(), addr)
	if err != nil {
		bc.sendServiceError(w, r, err)
		return
	}
	bc.sendJSON(w, http.StatusOK, blogResponse{Address: addr, Blog: blog})
}

// ShowByAuthor handles looking up a blog by its author
func (bc *BlogController) ShowByAuthor(w http.ResponseWriter, r *http.Request) {
	author, err := identityVar(r, "author")
	if err != nil {
		bc.sendError(w, "Invalid author", http.StatusBadRequest)
		return
	}

	blog, err := bc.blogService.GetBlogByAuthor(r.Context(), author)
	if err != nil {
		bc.sendServiceError(w, r, err)
		return
	}
	bc.sendJSON(w, http.StatusOK, blogResponse{Address: blog.Address(), Blog: blog})
}

// Usage handles reporting an identity's storage accounting
func (bc *BlogController) Usage(w http.ResponseWriter, r *http.Request) {
	id, err := identityVar(r, "identity")
	if err != nil {
		bc.sendError(w, "Invalid identity", http.StatusBadRequest)
		return
	}

	usage, err := bc.blogService.Usage(r.Context(), id)
	if err != nil {
		bc.sendServiceError(w, r, err)
		return
	}
	bc.sendJSON(w, http.StatusOK, usage)
}

// Helper methods for consistent response handling

func (bc *BlogController) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (bc *BlogController) sendError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func (bc *BlogController) sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	bc.sendError(w, serviceErrorMessage(r, err, status), status)
}
