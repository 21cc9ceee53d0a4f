package usecase

import (
	"errors"
	"fmt"
)

// AuthError é exibido direto na tela de login.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func IsAuthError(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

// PersistenceError indica falha de leitura/escrita no store remoto.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func IsPersistenceError(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}

type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q não encontrado", e.Kind, e.ID)
}

func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// ForbiddenError: o ator atual não tem permissão para a operação.
type ForbiddenError struct {
	Action string
}

func (e *ForbiddenError) Error() string {
	return "operação não permitida: " + e.Action
}

func IsForbiddenError(err error) bool {
	var target *ForbiddenError
	return errors.As(err, &target)
}

func IsValidationError(err error) bool {
	var many ValidationErrors
	if errors.As(err, &many) {
		return true
	}
	var one ValidationError
	return errors.As(err, &one)
}
