package models

import "errors"

var (
	ErrNotFound       = errors.New("file not found")
	ErrNoFile         = errors.New("no file uploaded")
	ErrTooLarge       = errors.New("file too large")
	ErrBadRange       = errors.New("range not satisfiable")
	ErrUnknownProfile = errors.New("unknown download profile")
	// ErrTransportAbort: обрыв уже начатого ответа; клиенту его не показывают, только логируют.
	ErrTransportAbort = errors.New("transport aborted")
)
