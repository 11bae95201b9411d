package ports

import "errors"

// Ошибки-маркеры для маппинга в HTTP-статусы на уровне delivery.
var (
	ErrBadInput = errors.New("bad input")
	ErrEngine   = errors.New("engine unavailable")
)
