package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/oficina-digital/vistoria/internal/logx"
	"github.com/oficina-digital/vistoria/internal/models"
	"github.com/oficina-digital/vistoria/internal/repository"
	"github.com/oficina-digital/vistoria/internal/storage"
	"github.com/oficina-digital/vistoria/internal/validate"
)

// PhotoService envia e remove fotos da OS no armazenamento de objetos.
type PhotoService struct {
	Orders repository.OrderRepository
	Photos repository.PhotoRepository
	Store  storage.ObjectStore
	Logger *logx.Logger
}

// NewPhotoService cria um novo PhotoService.
func NewPhotoService(orders repository.OrderRepository, photos repository.PhotoRepository, store storage.ObjectStore, logger *logx.Logger) *PhotoService {
	return &PhotoService{Orders: orders, Photos: photos, Store: store, Logger: logger}
}

// UploadPhotos valida o lote inteiro antes de gravar qualquer arquivo.
// Cada foto é enviada ao bucket e depois registrada; se o registro falhar o objeto é removido.
func (s *PhotoService) UploadPhotos(ctx context.Context, caller models.Caller, orderIDStr string, files []*multipart.FileHeader) ([]models.Photo, error) {
	if strings.TrimSpace(orderIDStr) == "" {
		return nil, models.NewValidation(`O campo "os_id" é obrigatório.`)
	}
	if err := validate.PhotoFiles(files); err != nil {
		return nil, models.NewValidation(err.Error())
	}
	orderID, err := parseID(orderIDStr, orderNotFound)
	if err != nil {
		return nil, err
	}
	if _, err := loadOrder(ctx, s.Orders, caller, orderID); err != nil {
		return nil, err
	}

	saved := make([]models.Photo, 0, len(files))
	for _, fh := range files {
		photo, err := s.storePhoto(ctx, orderID, fh)
		if err != nil {
			return nil, err
		}
		saved = append(saved, *photo)
	}
	return saved, nil
}

func (s *PhotoService) storePhoto(ctx context.Context, orderID int64, fh *multipart.FileHeader) (*models.Photo, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	key := storage.NewPhotoKey(orderID, fh.Filename)
	url, err := s.Store.Put(ctx, key, f, fh.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	photo, err := s.Photos.CreatePhoto(ctx, orderID, url)
	if err != nil {
		if delErr := s.Store.Delete(ctx, key); delErr != nil && s.Logger != nil {
			s.Logger.Warnf("order %d: orphan photo object %s: %v", orderID, key, delErr)
		}
		return nil, err
	}
	return photo, nil
}

// DeletePhoto remove o objeto do bucket e depois o registro da foto.
func (s *PhotoService) DeletePhoto(ctx context.Context, caller models.Caller, photoIDStr string) error {
	id, err := parseID(photoIDStr, photoNotFound)
	if err != nil {
		return err
	}
	photo, err := s.Photos.GetPhoto(ctx, id)
	if err != nil {
		return err
	}
	if _, err := loadOrder(ctx, s.Orders, caller, photo.OrderID); err != nil {
		return err
	}

	key, err := s.Store.KeyFromURL(photo.Path)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warnf("photo %d: cannot resolve object key from %s: %v", id, photo.Path, err)
		}
	} else if err := s.Store.Delete(ctx, key); err != nil {
		return err
	}
	return s.Photos.DeletePhoto(ctx, id)
}
