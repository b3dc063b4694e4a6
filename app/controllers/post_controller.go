package controllers

import (
	"encoding/json"
	"net/http"

	"blogledger/app/middleware"
	"blogledger/app/models"
	"blogledger/app/services"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	blogService *services.BlogService
}

// NewPostController creates a new PostController
func NewPostController(service *services.BlogService) *PostController {
	return &PostController{blogService: service}
}

// SetService sets the blog service for testing
func (pc *PostController) SetService(service *services.BlogService) {
	pc.blogService = service
}

type createPostRequest struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

type appendContentRequest struct {
	Chunk string `json:"chunk"`
}

type replaceContentRequest struct {
	Content string `json:"content"`
}

// postResponse adds the derived address to a post
type postResponse struct {
	Address models.Address `json:"address"`
	*models.Post
}

func newPostResponse(post *models.Post) postResponse {
	return postResponse{Address: post.Address(), Post: post}
}

// Index handles listing a blog's posts
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	blogAddr, err := addressVar(r, "blog")
	if err != nil {
		pc.sendError(w, "Invalid blog address", http.StatusBadRequest)
		return
	}

	posts, err := pc.blogService.ListPosts(r.Context(), blogAddr)
	if err != nil {
		pc.sendServiceError(w, r, err)
		return
	}

	response := make([]postResponse, 0, len(posts))
	for _, post := range posts {
		response = append(response, newPostResponse(post))
	}
	pc.sendJSON(w, http.StatusOK, map[string]interface{}{
		"posts": response,
	})
}

// Show handles displaying a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	addr, err := addressVar(r, "post")
	if err != nil {
		pc.sendError(w, "Invalid post address", http.StatusBadRequest)
		return
	}

	post, err := pc.blogService.GetPost(r.Context(), addr)
	if err != nil {
		pc.sendServiceError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, newPostResponse(post))
}

// Create handles creating a new post under a blog
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	author, ok := middleware.AuthorFrom(r.Context())
	if !ok {
		pc.sendError(w, errMissingAuthor.Error(), http.StatusUnauthorized)
		return
	}

	blogAddr, err := addressVar(r, "blog")
	if err != nil {
		pc.sendError(w, "Invalid blog address", http.StatusBadRequest)
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pc.sendError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	post, err := pc.blogService.CreatePost(r.Context(), author, blogAddr, req.Title, req.Tags)
	if err != nil {
		pc.sendServiceError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusCreated, newPostResponse(post))
}

// Update handles changing a post's title and/or tags
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	author, addr, ok := pc.authorAndPost(w, r)
	if !ok {
		return
	}

	var update services.PostMetaUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		pc.sendError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	post, err := pc.blogService.UpdatePostMeta(r.Context(), author, addr, update)
	if err != nil {
		pc.sendServiceError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, newPostResponse(post))
}

// AppendContent handles appending a chunk to a post's content
func (pc *PostController) AppendContent(w http.ResponseWriter, r *http.Request) {
	author, addr, ok := pc.authorAndPost(w, r)
	if !ok {
		return
	}

	var req appendContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pc.sendError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	post, err := pc.blogService.AppendPostContent(r.Context(), author, addr, req.Chunk)
	if err != nil {
		pc.sendServiceError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, newPostResponse(post))
}

// ReplaceContent handles replacing a post's whole content
func (pc *PostController) ReplaceContent(w http.ResponseWriter, r *http.Request) {
	author, addr, ok := pc.authorAndPost(w, r)
	if !ok {
		return
	}

	var req replaceContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pc.sendError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	post, err := pc.blogService.ReplacePostContent(r.Context(), author, addr, req.Content)
	if err != nil {
		pc.sendServiceError(w, r, err)
		return
	}
	pc.sendJSON(w, http.StatusOK, newPostResponse(post))
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	author, addr, ok := pc.authorAndPost(w, r)
	if !ok {
		return
	}

	if err := pc.blogService.DeletePost(r.Context(), author, addr); err != nil {
		pc.sendServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (pc *PostController) authorAndPost(w http.ResponseWriter, r *http.Request) (models.Identity, models.Address, bool) {
	author, ok := middleware.AuthorFrom(r.Context())
	if !ok {
		pc.sendError(w, errMissingAuthor.Error(), http.StatusUnauthorized)
		return author, models.Address{}, false
	}

	addr, err := addressVar(r, "post")
	if err != nil {
		pc.sendError(w, "Invalid post address", http.StatusBadRequest)
		return author, addr, false
	}
	return author, addr, true
}

// Helper methods for consistent response handling

func (pc *PostController) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (pc *PostController) sendError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func (pc *PostController) sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	pc.sendError(w, serviceErrorMessage(r, err, status), status)
}
