package services

import (
	"errors"

	"blogledger/app/models"
	"blogledger/app/repositories"
)

var (
	ErrUnauthorized  = errors.New("unauthorized: only the author can perform this action")
	ErrNotFound      = repositories.ErrNotFound
	ErrAlreadyExists = repositories.ErrAlreadyExists
	ErrValidation    = models.ErrValidation
)
