package authenticating

import (
	"errors"
	"fmt"
)

var (
	// Грешки при автентикация
	ErrInvalidCredentials    = errors.New("невалидни данни за вход")
	ErrUserDisabled          = errors.New("деактивиран потребител")
	ErrUserNotFound          = errors.New("потребителят не е намерен")
	ErrInvalidToken          = errors.New("невалиден токен")
	ErrExpiredToken          = errors.New("изтекъл токен")
	ErrInsufficientPrivilege = errors.New("недостатъчни права")
	ErrUserAlreadyExists     = errors.New("потребителят вече съществува")

	// Грешки при валидация
	ErrInvalidRequest      = errors.New("невалидна заявка")
	ErrMissingRequiredData = errors.New("липсват задължителни данни")

	// Грешки за пароли
	ErrWeakPassword      = errors.New("слаба парола")
	ErrSamePassword      = errors.New("новата парола трябва да е различна от текущата")
	ErrNoAdminPrivileges = errors.New("само администратори могат да извършат това действие")

	// Грешки от базата данни
	ErrDatabaseOperation = errors.New("грешка при операция с базата данни")
)

// AuthError е грешка с допълнителен контекст за автентикацията
type AuthError struct {
	Err     error
	Code    string // Код на грешка за API-то
	UserID  int
	Details string
}

func (e *AuthError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsCredentialsError проверява дали грешката е свързана с данните за вход
func IsCredentialsError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrUserDisabled)
}

// IsAuthorizationError проверява дали грешката е свързана с правата за достъп
func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrInsufficientPrivilege) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrNoAdminPrivileges)
}

// NewAuthError създава нова грешка за автентикация
func NewAuthError(baseErr error, code string, details string) *AuthError {
	return &AuthError{
		Err:     baseErr,
		Code:    code,
		Details: details,
	}
}

// NewUserAuthError създава грешка за автентикация с контекст за потребителя
func NewUserAuthError(baseErr error, code string, userID int, details string) *AuthError {
	return &AuthError{
		Err:     baseErr,
		Code:    code,
		UserID:  userID,
		Details: details,
	}
}
