// Package validate reúne validações puras das entradas da API.
package validate

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/oficina-digital/vistoria/internal/models"

	"github.com/go-pdf/fpdf"
)

const (
	MaxPhotos        = 10
	MaxPhotoSize     = 5 << 20
	MinPasswordLen   = 6
	signaturePrefix  = "data:"
	base64Marker     = ";base64,"
	maxSignatureSize = 2 << 20
)

// PhotoFiles confere a quantidade, o tipo e o tamanho das fotos enviadas.
func PhotoFiles(files []*multipart.FileHeader) error {
	if len(files) == 0 {
		return errors.New("Nenhuma foto enviada.")
	}
	if len(files) > MaxPhotos {
		return fmt.Errorf("Envie no máximo %d fotos por vez.", MaxPhotos)
	}
	for _, fh := range files {
		if err := PhotoContentType(fh.Header.Get("Content-Type")); err != nil {
			return fmt.Errorf("%s: %w", fh.Filename, err)
		}
		if fh.Size > MaxPhotoSize {
			return fmt.Errorf("%s: arquivo excede o limite de 5MB", fh.Filename)
		}
	}
	return nil
}

// PhotoContentType aceita apenas tipos image/*.
func PhotoContentType(ct string) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(ct)), "image/") {
		return errors.New("Tipo de arquivo inválido. Apenas imagens são permitidas.")
	}
	return nil
}

// SignatureDataURL decodifica a assinatura enviada como data URL PNG ou JPEG.
// Devolve os bytes da imagem e o tipo no formato usado pelo gerador de PDF.
func SignatureDataURL(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, "", errors.New("Nenhuma assinatura fornecida.")
	}
	if !strings.HasPrefix(s, signaturePrefix) {
		return nil, "", errors.New("Assinatura deve ser uma data URL de imagem.")
	}
	idx := strings.Index(s, base64Marker)
	if idx < 0 {
		return nil, "", errors.New("Assinatura deve estar codificada em base64.")
	}
	if len(s) > maxSignatureSize {
		return nil, "", errors.New("Assinatura excede o tamanho máximo.")
	}

	data, err := base64.StdEncoding.DecodeString(s[idx+len(base64Marker):])
	if err != nil {
		return nil, "", errors.New("Assinatura com base64 inválido.")
	}

	imageType, err := ImageType(data)
	if err != nil {
		return nil, "", errors.New("Assinatura deve ser uma imagem PNG ou JPEG.")
	}
	if imageType == "GIF" {
		return nil, "", errors.New("Assinatura deve ser uma imagem PNG ou JPEG.")
	}
	if err := Renderable(data, imageType); err != nil {
		return nil, "", errors.New("Assinatura com imagem corrompida ou em formato não suportado.")
	}
	return data, imageType, nil
}

// Renderable registra a imagem num documento PDF descartável e devolve o erro
// do gerador, se houver. PNG truncado, com 16 bits ou entrelaçado falha aqui.
func Renderable(data []byte, imageType string) error {
	p := fpdf.New("P", "pt", "A4", "")
	p.RegisterImageOptionsReader("imagem", fpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
	return p.Error()
}

// ImageType identifica PNG, JPEG ou GIF pelo conteúdo.
func ImageType(data []byte) (string, error) {
	switch http.DetectContentType(data) {
	case "image/png":
		return "PNG", nil
	case "image/jpeg":
		return "JPG", nil
	case "image/gif":
		return "GIF", nil
	default:
		return "", errors.New("unsupported image format")
	}
}

// Password exige o tamanho mínimo da senha.
func Password(p string) error {
	if len(p) < MinPasswordLen {
		return fmt.Errorf("A nova senha deve ter no mínimo %d caracteres.", MinPasswordLen)
	}
	return nil
}

// Role aceita os papéis atribuíveis pela administração.
func Role(r models.Role) error {
	switch r {
	case models.RoleAdmin, models.RoleMember:
		return nil
	default:
		return fmt.Errorf("Role inválida: %q", r)
	}
}
