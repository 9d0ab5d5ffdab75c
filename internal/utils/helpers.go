package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/oficina-digital/vistoria/internal/logx"
	"github.com/oficina-digital/vistoria/internal/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SendErrorResponse envia o erro no formato JSON
func SendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := models.ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
	}
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Println(err)
	}
}

// SendServiceError traduz o erro de um serviço na resposta HTTP.
// Erros de domínio levam o próprio status; os demais viram 500 com a mensagem genérica.
func SendServiceError(w http.ResponseWriter, logger *logx.Logger, err error, fallback string) {
	var errorResponse *models.ErrorResponse
	if errors.As(err, &errorResponse) {
		if logger != nil {
			logger.Debugf("%d: %v", errorResponse.StatusCode, err)
		}
		SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
		return
	}
	if logger != nil {
		logger.Errorf("%s: %v", fallback, err)
	}
	SendErrorResponse(w, http.StatusInternalServerError, fallback)
}

// WriteJSON envia v como JSON com o status informado.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println(err)
	}
}

// ParsePageLimit lê page e limit da query, com padrão 1 e 20
func ParsePageLimit(pageStr, limitStr string) (int, int, error) {
	page, limit := 1, DefaultPageSize
	var err error

	if pageStr != "" {
		page, err = strconv.Atoi(pageStr)
		if err != nil || page <= 0 {
			return 0, 0, fmt.Errorf("Parâmetro page inválido, deve ser um inteiro positivo.")
		}
	}

	if limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > MaxPageSize {
			return 0, 0, fmt.Errorf("Parâmetro limit inválido, deve estar entre 1 e %d.", MaxPageSize)
		}
	}

	// OFFSET = (page-1)*limit precisa caber em int32.
	if page-1 > math.MaxInt32/limit {
		return 0, 0, fmt.Errorf("Parâmetro page inválido, valor muito grande.")
	}

	return page, limit, nil
}
