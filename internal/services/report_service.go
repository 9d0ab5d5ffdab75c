package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/oficina-digital/vistoria/internal/logx"
	"github.com/oficina-digital/vistoria/internal/models"
	"github.com/oficina-digital/vistoria/internal/report"
	"github.com/oficina-digital/vistoria/internal/repository"
	"github.com/oficina-digital/vistoria/internal/validate"
)

// ImageFetcher baixa as imagens das fotos; falhas individuais são descartadas.
type ImageFetcher interface {
	Fetch(ctx context.Context, urls []string) []report.Image
}

// Report é o PDF pronto para envio.
type Report struct {
	Data               []byte
	Filename           string
	ContentDisposition string
	Summary            report.Summary
}

// ReportService agrega os dados da OS e gera o relatório em PDF.
type ReportService struct {
	Orders    repository.OrderRepository
	Checklist repository.ChecklistRepository
	Photos    repository.PhotoRepository
	Fetcher   ImageFetcher
	Renderer  *report.Renderer
	Logger    *logx.Logger
}

// NewReportService cria um novo ReportService.
func NewReportService(orders repository.OrderRepository, checklist repository.ChecklistRepository, photos repository.PhotoRepository, fetcher ImageFetcher, renderer *report.Renderer, logger *logx.Logger) *ReportService {
	return &ReportService{
		Orders:    orders,
		Checklist: checklist,
		Photos:    photos,
		Fetcher:   fetcher,
		Renderer:  renderer,
		Logger:    logger,
	}
}

// Aggregate monta a visão completa da OS: ordem, itens, respostas por item e fotos.
func (s *ReportService) Aggregate(ctx context.Context, caller models.Caller, idStr string) (*models.OrderView, error) {
	id, err := parseID(idStr, orderNotFound)
	if err != nil {
		return nil, err
	}
	order, err := loadOrder(ctx, s.Orders, caller, id)
	if err != nil {
		return nil, err
	}

	items, err := s.Checklist.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.Checklist.ListAnswers(ctx, id)
	if err != nil {
		return nil, err
	}
	answers := make(map[int64]models.ChecklistAnswer, len(rows))
	for _, a := range rows {
		answers[a.ItemID] = a
	}
	photos, err := s.Photos.ListPhotos(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.OrderView{
		Order:   *order,
		Items:   items,
		Answers: answers,
		Photos:  photos,
	}, nil
}

// Generate gera o PDF inteiro em memória antes de devolvê-lo.
func (s *ReportService) Generate(ctx context.Context, caller models.Caller, idStr string) (*Report, error) {
	view, err := s.Aggregate(ctx, caller, idStr)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(view.Photos))
	for _, p := range view.Photos {
		urls = append(urls, p.Path)
	}
	images := s.Fetcher.Fetch(ctx, urls)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("order %d: fetching photos: %w", view.Order.ID, err)
	}
	if len(images) < len(urls) && s.Logger != nil {
		s.Logger.Warnf("order %d: %d of %d photos unavailable for the report", view.Order.ID, len(urls)-len(images), len(urls))
	}

	doc := report.Document{View: *view, Photos: images}
	if view.Order.Signature != nil && *view.Order.Signature != "" {
		data, imageType, err := validate.SignatureDataURL(*view.Order.Signature)
		if err != nil {
			return nil, fmt.Errorf("order %d: stored signature is unusable: %w", view.Order.ID, err)
		}
		doc.Signature = &report.Image{Data: data, Type: imageType}
	}

	var buf bytes.Buffer
	summary, err := s.Renderer.Render(&buf, doc)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", view.Order.ID, err)
	}
	if s.Logger != nil {
		s.Logger.Debugf("order %d: report with %d pages, %d photos, signed=%t", view.Order.ID, summary.Pages, summary.Photos, summary.Signed)
	}

	return &Report{
		Data:               buf.Bytes(),
		Filename:           report.Filename(view.Order),
		ContentDisposition: report.ContentDisposition(view.Order),
		Summary:            summary,
	}, nil
}
