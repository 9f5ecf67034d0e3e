package repository

import "errors"

var (
	ErrDuplicateKey = errors.New("room number already exists")
	ErrNotFound     = errors.New("room not found")
)
