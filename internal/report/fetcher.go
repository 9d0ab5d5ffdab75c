package report

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oficina-digital/vistoria/internal/logx"
	"github.com/oficina-digital/vistoria/internal/validate"

	"golang.org/x/sync/errgroup"
)

const (
	defaultFetchTimeout     = 10 * time.Second
	defaultFetchConcurrency = 8
	defaultMaxImageBytes    = 20 << 20
)

// Image é uma imagem pronta para o PDF; Type é PNG, JPG ou GIF.
type Image struct {
	Data []byte
	Type string
}

// Fetcher baixa as fotos de uma OS em paralelo.
type Fetcher struct {
	Client      *http.Client
	Timeout     time.Duration
	Concurrency int
	MaxBytes    int64
	Logger      *logx.Logger
}

// NewFetcher cria um Fetcher com limites padrão para valores zerados.
func NewFetcher(client *http.Client, timeout time.Duration, concurrency int, logger *logx.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if concurrency <= 0 {
		concurrency = defaultFetchConcurrency
	}
	return &Fetcher{
		Client:      client,
		Timeout:     timeout,
		Concurrency: concurrency,
		MaxBytes:    defaultMaxImageBytes,
		Logger:      logger,
	}
}

// Fetch baixa todas as URLs e devolve as imagens obtidas na ordem de entrada.
// Falhas individuais são registradas e descartadas; Fetch nunca falha como um todo.
// O cancelamento de ctx fica a cargo de quem chama, via ctx.Err().
func (f *Fetcher) Fetch(ctx context.Context, urls []string) []Image {
	results := make([]*Image, len(urls))

	var g errgroup.Group
	if f.Concurrency > 0 {
		g.SetLimit(f.Concurrency)
	}
	for i, u := range urls {
		g.Go(func() error {
			img, err := f.fetchOne(ctx, u)
			if err != nil {
				if f.Logger != nil {
					f.Logger.Warnf("report: failed to fetch image %s: %v", u, err)
				}
				return nil
			}
			results[i] = img
			return nil
		})
	}
	_ = g.Wait()

	images := make([]Image, 0, len(urls))
	for _, img := range results {
		if img != nil {
			images = append(images, *img)
		}
	}
	return images
}

func (f *Fetcher) fetchOne(ctx context.Context, url string) (*Image, error) {
	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.MaxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.MaxBytes {
		return nil, fmt.Errorf("image larger than %d bytes", f.MaxBytes)
	}

	imageType, err := validate.ImageType(data)
	if err != nil {
		return nil, err
	}
	return &Image{Data: data, Type: imageType}, nil
}
