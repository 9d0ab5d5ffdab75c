// Package report monta o PDF da vistoria a partir da visão agregada da OS.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"time"

	"github.com/oficina-digital/vistoria/internal/logx"
	"github.com/oficina-digital/vistoria/internal/models"
	"github.com/oficina-digital/vistoria/internal/validate"

	"github.com/go-pdf/fpdf"
)

// Geometria em pontos sobre A4.
const (
	margin         = 50.0
	headerOffset   = 150.0
	itemGap        = 25.0
	itemIndent     = 15.0
	rowGap         = 2.0
	rowBreakSpace  = 70.0
	photoGap       = 20.0
	photoHeight    = 180.0
	signatureX     = 150.0
	signatureW     = 300.0
	signatureH     = 80.0
	signatureLimit = 600.0
	signatureSnap  = 200.0
	lineFactor     = 1.156
	fontFamily     = "Helvetica"
	dateLayout     = "02/01/2006, 15:04:05"
)

// Document reúne tudo o que o relatório precisa, já resolvido.
type Document struct {
	View      models.OrderView
	Photos    []Image
	Signature *Image
}

// Summary descreve o documento gerado.
type Summary struct {
	Pages  int
	Photos int
	Signed bool
}

// Renderer gera o PDF do checklist.
type Renderer struct {
	HeaderImage string
	Location    *time.Location
	Now         func() time.Time
	Compress    bool
	Logger      *logx.Logger
}

// NewRenderer cria um Renderer com compressão ligada e relógio real.
func NewRenderer(headerImage string, loc *time.Location, logger *logx.Logger) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{
		HeaderImage: headerImage,
		Location:    loc,
		Now:         time.Now,
		Compress:    true,
		Logger:      logger,
	}
}

type layout struct {
	pdf  *fpdf.Fpdf
	tr   func(string) string
	y    float64
	w, h float64
}

func lineHeight(size float64) float64 { return size * lineFactor }

func (l *layout) newPage() {
	l.pdf.AddPage()
	l.y = margin
}

// write escreve um bloco de texto com quebra automática e avança o cursor.
func (l *layout) write(x, width, size float64, align, s string) {
	l.pdf.SetXY(x, l.y)
	l.pdf.MultiCell(width, lineHeight(size), l.tr(s), "", align, false)
	l.y = l.pdf.GetY()
}

// Render escreve o PDF completo em w.
func (r *Renderer) Render(w io.Writer, doc Document) (Summary, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)
	pdf.SetCompression(r.Compress)
	pdf.SetCatalogSort(true)
	now := r.now()
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetTitle(Filename(doc.View.Order), true)
	pdf.SetCreator("vistoria", false)

	l := &layout{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	l.w, l.h = pdf.GetPageSize()
	l.newPage()

	r.drawHeader(l)
	r.drawMetadata(l, doc.View.Order)
	if err := r.drawChecklist(l, doc.View); err != nil {
		return Summary{}, err
	}
	photos := r.drawPhotos(l, doc.Photos)

	signed := false
	if doc.Signature != nil {
		if err := r.drawSignature(l, *doc.Signature, doc.View.Order.ClientName); err != nil {
			return Summary{}, err
		}
		signed = true
	}

	if err := pdf.Error(); err != nil {
		return Summary{}, fmt.Errorf("failed to build pdf: %w", err)
	}
	summary := Summary{Pages: pdf.PageCount(), Photos: photos, Signed: signed}
	if err := pdf.Output(w); err != nil {
		return Summary{}, fmt.Errorf("failed to write pdf: %w", err)
	}
	return summary, nil
}

func (r *Renderer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Renderer) warnf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Warnf(format, args...)
	}
}

func (r *Renderer) drawHeader(l *layout) {
	if r.HeaderImage == "" {
		return
	}
	data, err := os.ReadFile(r.HeaderImage)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.warnf("report: cannot read header image %s: %v", r.HeaderImage, err)
		}
		return
	}
	imageType, err := validate.ImageType(data)
	if err != nil {
		r.warnf("report: header image %s: %v", r.HeaderImage, err)
		return
	}
	img := Image{Data: data, Type: imageType}
	if err := validate.Renderable(img.Data, img.Type); err != nil {
		r.warnf("report: header image %s: %v", r.HeaderImage, err)
		return
	}

	opts := fpdf.ImageOptions{ImageType: img.Type}
	l.pdf.RegisterImageOptionsReader("cabecalho", opts, bytes.NewReader(img.Data))
	l.pdf.ImageOptions("cabecalho", 0, 0, l.w, 0, false, opts, 0, "")
	l.y = headerOffset
}

func (r *Renderer) drawMetadata(l *layout, order models.ServiceOrder) {
	contentW := l.w - 2*margin

	l.pdf.SetFont(fontFamily, "B", 20)
	l.write(margin, contentW, 20, "C", "Checklist")
	l.y += 2 * lineHeight(20)

	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	lines := []string{
		"Cliente: " + order.ClientName,
		"Veículo: " + order.VehicleModel,
		"Placa: " + order.VehiclePlate,
		"Data da Vistoria: " + order.CreatedAt.In(loc).Format(dateLayout),
	}
	if order.InsurerName != nil && *order.InsurerName != "" {
		lines = append(lines, "Seguradora: "+*order.InsurerName)
	}

	l.pdf.SetFont(fontFamily, "", 12)
	for _, s := range lines {
		l.write(margin, contentW, 12, "L", s)
	}
	l.y += 2 * lineHeight(12)

	l.pdf.SetFont(fontFamily, "U", 14)
	l.write(margin, contentW, 14, "L", "Itens Vistoriados")
	l.y += lineHeight(14)
}

func (r *Renderer) drawChecklist(l *layout, view models.OrderView) error {
	colW := (l.w - 2*margin - itemGap) / 2
	x := [2]float64{margin, margin + colW + itemGap}

	rows := ChecklistRows(view.Items)
	for i, row := range rows {
		startY := l.y
		bottom := startY
		for col, item := range row {
			if item == nil {
				continue
			}
			end, err := r.drawItem(l, *item, view.Answers, x[col], startY, colW)
			if err != nil {
				return err
			}
			bottom = math.Max(bottom, end)
		}
		l.y = bottom + rowGap

		if i+1 < len(rows) && l.y > l.h-rowBreakSpace {
			l.newPage()
		}
	}
	return nil
}

func (r *Renderer) drawItem(l *layout, item models.ChecklistItem, answers map[int64]models.ChecklistAnswer, x, y, width float64) (float64, error) {
	var answer *models.ChecklistAnswer
	if a, ok := answers[item.ID]; ok {
		answer = &a
	}
	d, err := DisplayFor(item, answer)
	if err != nil {
		return 0, err
	}

	l.y = y
	l.pdf.SetFont(fontFamily, "B", 10)
	l.write(x, width, 10, "L", d.Label)

	l.pdf.SetFont(fontFamily, "", 10)
	l.write(x+itemIndent, width-itemIndent, 10, "L", "    - Status: "+d.Status)

	if d.Observation != "" {
		l.pdf.SetFont(fontFamily, "I", 10)
		l.write(x+itemIndent, width-itemIndent, 10, "L", "    - Observação: "+d.Observation)
	}
	return l.y, nil
}

func (r *Renderer) drawPhotos(l *layout, photos []Image) int {
	usable := make([]Image, 0, len(photos))
	for i, img := range photos {
		if err := validate.Renderable(img.Data, img.Type); err != nil {
			r.warnf("report: skipping photo %d: %v", i, err)
			continue
		}
		usable = append(usable, img)
	}
	if len(usable) == 0 {
		return 0
	}

	l.newPage()
	l.pdf.SetFont(fontFamily, "U", 14)
	l.write(margin, l.w-2*margin, 14, "L", "Fotos Anexadas")
	l.y += lineHeight(14)

	cellW := (l.w - 2*margin - photoGap) / 2
	y := l.y
	for i, img := range usable {
		if y+photoHeight > l.h-margin {
			l.newPage()
			y = margin
		}
		x := margin
		if i%2 == 1 {
			x = margin + cellW + photoGap
		}

		name := fmt.Sprintf("foto-%d", i)
		opts := fpdf.ImageOptions{ImageType: img.Type}
		info := l.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
		if info != nil {
			dw, dh := fit(info.Width(), info.Height(), cellW, photoHeight)
			l.pdf.ImageOptions(name, x+(cellW-dw)/2, y+(photoHeight-dh)/2, dw, dh, false, opts, 0, "")
		}

		if i%2 == 1 || i == len(usable)-1 {
			y += photoHeight + photoGap
		}
	}
	l.y = y
	return len(usable)
}

func (r *Renderer) drawSignature(l *layout, sig Image, clientName string) error {
	if err := validate.Renderable(sig.Data, sig.Type); err != nil {
		return fmt.Errorf("invalid signature image: %w", err)
	}

	if l.y > signatureLimit {
		l.newPage()
	}
	blockY := l.h - signatureSnap
	if l.y < blockY-50 {
		l.y = blockY
	}

	opts := fpdf.ImageOptions{ImageType: sig.Type}
	info := l.pdf.RegisterImageOptionsReader("assinatura", opts, bytes.NewReader(sig.Data))
	if info != nil {
		dw, dh := fit(info.Width(), info.Height(), signatureW, signatureH)
		l.pdf.ImageOptions("assinatura", signatureX+(signatureW-dw)/2, l.y, dw, dh, false, opts, 0, "")
	}
	l.y += signatureH

	lineY := l.y + 5
	l.pdf.SetDrawColor(0xaa, 0xaa, 0xaa)
	l.pdf.Line(signatureX, lineY, signatureX+signatureW, lineY)

	l.pdf.SetFont(fontFamily, "", 10)
	l.pdf.SetTextColor(0, 0, 0)
	l.y = lineY + 5
	l.write(signatureX, signatureW, 10, "C", clientName)
	return nil
}

// fit escala (w, h) para caber em (maxW, maxH) mantendo a proporção.
func fit(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}
	scale := math.Min(maxW/w, maxH/h)
	return w * scale, h * scale
}
