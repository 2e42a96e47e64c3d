package services

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrNotPostAuthor      = errors.New("not the author of this post")
	ErrSlugTaken          = errors.New("a post with this title already exists")
)
