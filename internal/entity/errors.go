package entity

import "errors"

var (
	ErrNotFound            = errors.New("registro não encontrado")
	ErrInvalidCredentials  = errors.New("credenciais inválidas")
	ErrEmailAlreadyExists  = errors.New("email já cadastrado")
	ErrInvalidProcessState = errors.New("status de processo inválido")
)
