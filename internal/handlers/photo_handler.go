package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/oficina-digital/vistoria/internal/logx"
	"github.com/oficina-digital/vistoria/internal/models"
	"github.com/oficina-digital/vistoria/internal/services"
	"github.com/oficina-digital/vistoria/internal/utils"
	"github.com/oficina-digital/vistoria/internal/validate"
)

const (
	photoField      = "fotos"
	orderField      = "os_id"
	multipartMemory = 8 << 20
	maxUploadBody   = validate.MaxPhotos*validate.MaxPhotoSize + 1<<20
)

// PhotoHandler atende o envio e a remoção de fotos.
type PhotoHandler struct {
	Service *services.PhotoService
	Logger  *logx.Logger
	Timeout time.Duration
}

// NewPhotoHandler cria um novo PhotoHandler.
func NewPhotoHandler(service *services.PhotoService, logger *logx.Logger, timeout time.Duration) *PhotoHandler {
	return &PhotoHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// UploadPhotos recebe até 10 imagens no campo "fotos" junto com "os_id".
func (h *PhotoHandler) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.SendErrorResponse(w, http.StatusRequestEntityTooLarge, "Envio excede o tamanho máximo permitido.")
			return
		}
		utils.SendErrorResponse(w, http.StatusBadRequest, "Formulário multipart inválido.")
		return
	}
	defer r.MultipartForm.RemoveAll()

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	photos, err := h.Service.UploadPhotos(ctx, caller, r.FormValue(orderField), r.MultipartForm.File[photoField])
	if err != nil {
		utils.SendServiceError(w, h.Logger, err, "Erro interno do servidor ao salvar fotos.")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, models.PhotosResponse{Message: "Fotos enviadas com sucesso!", Data: photos})
}

// DeletePhoto remove uma foto.
func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	if err := h.Service.DeletePhoto(ctx, caller, r.PathValue("foto_id")); err != nil {
		utils.SendServiceError(w, h.Logger, err, "Erro interno do servidor ao deletar foto.")
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Foto deletada com sucesso."})
}
