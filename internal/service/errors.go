package service

import (
	"errors"

	"github.com/zaqqye/room_backend_v1/internal/repository"
)

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrDuplicateKey = repository.ErrDuplicateKey
	ErrNotFound     = repository.ErrNotFound
)
