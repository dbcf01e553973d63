package domain

import "errors"

var (
	ErrUnknownChannel    = errors.New("unknown channel")
	ErrChannelSubscribed = errors.New("channel already has a handler")
	ErrBootstrapFailed   = errors.New("profile bootstrap failed")
	ErrSaveFailed        = errors.New("batch save failed")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrProfileExists     = errors.New("profile already exists")
	ErrBoardNotFound     = errors.New("board not found")
	ErrWidgetUnavailable = errors.New("playback widget unavailable")
	ErrLoginCancelled    = errors.New("login cancelled")
)
