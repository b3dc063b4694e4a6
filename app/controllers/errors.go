package controllers

import (
	"context"
	"errors"
	"net/http"

	"blogledger/app/middleware"
	"blogledger/app/models"
	"blogledger/app/repositories"
	"blogledger/app/services"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

var errMissingAuthor = errors.New("missing " + middleware.AuthorHeader + " header")

// errorStatus maps a service error onto the HTTP status reported to the client
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrAlreadyExists), errors.Is(err, repositories.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// serviceErrorMessage hides internal failures from the client
func serviceErrorMessage(r *http.Request, err error, status int) string {
	if status != http.StatusInternalServerError {
		return err.Error()
	}
	log.WithError(err).WithFields(log.Fields{
		"path":       r.URL.Path,
		"request_id": middleware.RequestIDFrom(r.Context()),
	}).Error("request failed")
	return "internal error"
}

func addressVar(r *http.Request, name string) (models.Address, error) {
	return models.ParseAddress(mux.Vars(r)[name])
}

func identityVar(r *http.Request, name string) (models.Identity, error) {
	return models.ParseIdentity(mux.Vars(r)[name])
}
