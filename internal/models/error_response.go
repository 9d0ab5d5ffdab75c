package models

import "net/http"

// ErrorResponse é o erro de domínio que carrega o status HTTP que o representa.
type ErrorResponse struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

// NewErrorResponse cria um novo erro com código e mensagem.
func NewErrorResponse(statusCode int, message string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Message:    message}
}

// Error satisfaz a interface error.
func (e *ErrorResponse) Error() string {
	return e.Message
}

// NewNotFound devolve um erro 404.
func NewNotFound(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusNotFound, message)
}

// NewForbidden devolve um erro 403.
func NewForbidden(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusForbidden, message)
}

// NewValidation devolve um erro 400.
func NewValidation(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusBadRequest, message)
}

// NewConflict devolve um erro 409.
func NewConflict(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusConflict, message)
}

// NewUnauthorized devolve um erro 401.
func NewUnauthorized(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusUnauthorized, message)
}
