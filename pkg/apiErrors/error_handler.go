package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Кодове на грешки за API-то
const (
	// Грешки при автентикация (AUTH)
	ErrInvalidCredentials    = "AUTH_001" // Невалидни данни за вход
	ErrUserDisabled          = "AUTH_002" // Деактивиран потребител
	ErrUserNotFound          = "AUTH_003" // Потребителят не е намерен
	ErrUserLocked            = "AUTH_004" // Временно блокиран потребител
	ErrPasswordExpired       = "AUTH_005" // Изтекла парола
	ErrInvalidToken          = "AUTH_006" // Невалиден токен
	ErrExpiredToken          = "AUTH_007" // Изтекъл токен
	ErrInsufficientPrivilege = "AUTH_008" // Недостатъчни права
	ErrUserAlreadyExists     = "AUTH_009" // Потребителят вече съществува

	// Грешки при валидация (VAL)
	ErrInvalidRequest      = "VAL_001" // Невалидна заявка
	ErrMissingRequiredData = "VAL_002" // Липсващи задължителни данни
	ErrInvalidFormat       = "VAL_003" // Невалиден формат на данните

	// Грешки при анализа (ANL)
	ErrNoAnalysis      = "ANL_001" // Няма завършен анализ
	ErrNoCorpusFiles   = "ANL_002" // Няма корпус файлове за анализ
	ErrRunNotFound     = "ANL_003" // Анализът не е намерен
	ErrProductNotFound = "ANL_004" // Продуктът не е намерен

	// Сървърни грешки (SRV)
	ErrInternalServer    = "SRV_001" // Вътрешна грешка на сървъра
	ErrDatabaseOperation = "SRV_002" // Грешка при работа с базата данни
)

// Съответствие между код на грешка и HTTP статус
var httpStatusMap = map[string]int{
	ErrInvalidCredentials:    http.StatusUnauthorized,
	ErrUserDisabled:          http.StatusForbidden,
	ErrUserNotFound:          http.StatusNotFound,
	ErrUserLocked:            http.StatusForbidden,
	ErrPasswordExpired:       http.StatusUnauthorized,
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrUserAlreadyExists:     http.StatusBadRequest,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrMissingRequiredData:   http.StatusBadRequest,
	ErrInvalidFormat:         http.StatusBadRequest,
	ErrNoAnalysis:            http.StatusNotFound,
	ErrNoCorpusFiles:         http.StatusBadRequest,
	ErrRunNotFound:           http.StatusNotFound,
	ErrProductNotFound:       http.StatusNotFound,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrDatabaseOperation:     http.StatusInternalServerError,
}

// APIError е стандартизирана грешка на API-то
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// WriteError записва стандартизираната грешка в HTTP отговора
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}

// FromError създава API грешка от обикновена Go грешка
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "Неизвестна грешка",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
