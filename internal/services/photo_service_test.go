package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"

	"github.com/oficina-digital/vistoria/internal/models"
	"github.com/oficina-digital/vistoria/internal/repository/mocks"
	storagemocks "github.com/oficina-digital/vistoria/internal/storage/mocks"

	"go.uber.org/mock/gomock"
)

type upload struct {
	name        string
	contentType string
	body        string
}

func fileHeaders(t *testing.T, uploads ...upload) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, u := range uploads {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="fotos"; filename="`+u.name+`"`)
		h.Set("Content-Type", u.contentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		part.Write([]byte(u.body))
	}
	mw.Close()

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	return form.File["fotos"]
}

func newPhotoFixture(t *testing.T) (*PhotoService, *mocks.MockOrderRepository, *mocks.MockPhotoRepository, *storagemocks.MockObjectStore) {
	ctrl := gomock.NewController(t)
	orders := mocks.NewMockOrderRepository(ctrl)
	photos := mocks.NewMockPhotoRepository(ctrl)
	store := storagemocks.NewMockObjectStore(ctrl)
	return NewPhotoService(orders, photos, store, nil), orders, photos, store
}

func TestPhotoService_UploadPhotos(t *testing.T) {
	own := &models.ServiceOrder{ID: 5, OficinaID: int64Ptr(7)}

	t.Run("missing os_id", func(t *testing.T) {
		svc, _, _, _ := newPhotoFixture(t)
		_, err := svc.UploadPhotos(context.Background(), memberOf7, "", fileHeaders(t, upload{"a.jpg", "image/jpeg", "x"}))
		if statusOf(t, err) != http.StatusBadRequest {
			t.Fatalf("expected 400, got %v", err)
		}
	})

	t.Run("rejects the whole batch before storing", func(t *testing.T) {
		svc, _, _, _ := newPhotoFixture(t)
		files := fileHeaders(t,
			upload{"a.jpg", "image/jpeg", "x"},
			upload{"b.pdf", "application/pdf", "y"},
		)
		_, err := svc.UploadPhotos(context.Background(), memberOf7, "5", files)
		if statusOf(t, err) != http.StatusBadRequest {
			t.Fatalf("expected 400, got %v", err)
		}
	})

	t.Run("no files", func(t *testing.T) {
		svc, _, _, _ := newPhotoFixture(t)
		_, err := svc.UploadPhotos(context.Background(), memberOf7, "5", nil)
		if statusOf(t, err) != http.StatusBadRequest {
			t.Fatalf("expected 400, got %v", err)
		}
	})

	t.Run("other oficina", func(t *testing.T) {
		svc, orders, _, _ := newPhotoFixture(t)
		orders.EXPECT().GetOrder(gomock.Any(), int64(5)).Return(own, nil)

		_, err := svc.UploadPhotos(context.Background(), memberOf9, "5", fileHeaders(t, upload{"a.jpg", "image/jpeg", "x"}))
		if statusOf(t, err) != http.StatusForbidden {
			t.Fatalf("expected 403, got %v", err)
		}
	})

	t.Run("stores and registers each photo", func(t *testing.T) {
		svc, orders, photos, store := newPhotoFixture(t)
		orders.EXPECT().GetOrder(gomock.Any(), int64(5)).Return(own, nil)
		store.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), "image/jpeg").DoAndReturn(
			func(_ context.Context, key string, body io.Reader, _ string) (string, error) {
				if !strings.HasPrefix(key, "os/5/") || !strings.HasSuffix(key, "-frente.jpg") {
					t.Fatalf("unexpected key %q", key)
				}
				data, _ := io.ReadAll(body)
				if string(data) != "jpeg-bytes" {
					t.Fatalf("unexpected body %q", data)
				}
				return "https://bucket/" + key, nil
			},
		)
		photos.EXPECT().CreatePhoto(gomock.Any(), int64(5), gomock.Any()).DoAndReturn(
			func(_ context.Context, orderID int64, path string) (*models.Photo, error) {
				return &models.Photo{ID: 1, OrderID: orderID, Path: path}, nil
			},
		)

		saved, err := svc.UploadPhotos(context.Background(), memberOf7, "5", fileHeaders(t, upload{"frente.jpg", "image/jpeg", "jpeg-bytes"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(saved) != 1 || !strings.HasPrefix(saved[0].Path, "https://bucket/os/5/") {
			t.Fatalf("unexpected photos %+v", saved)
		}
	})

	t.Run("removes object when the row insert fails", func(t *testing.T) {
		svc, orders, photos, store := newPhotoFixture(t)
		orders.EXPECT().GetOrder(gomock.Any(), int64(5)).Return(own, nil)

		var storedKey string
		store.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, key string, _ io.Reader, _ string) (string, error) {
				storedKey = key
				return "https://bucket/" + key, nil
			},
		)
		photos.EXPECT().CreatePhoto(gomock.Any(), int64(5), gomock.Any()).Return(nil, errors.New("insert failed"))
		store.EXPECT().Delete(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, key string) error {
				if key != storedKey {
					t.Fatalf("expected %q to be removed, got %q", storedKey, key)
				}
				return nil
			},
		)

		_, err := svc.UploadPhotos(context.Background(), memberOf7, "5", fileHeaders(t, upload{"a.png", "image/png", "x"}))
		if err == nil || err.Error() != "insert failed" {
			t.Fatalf("expected insert error, got %v", err)
		}
	})
}

func TestPhotoService_DeletePhoto(t *testing.T) {
	photo := &models.Photo{ID: 4, OrderID: 5, Path: "https://bucket.s3.us-east-1.amazonaws.com/os/5/a.jpg"}

	t.Run("malformed id", func(t *testing.T) {
		svc, _, _, _ := newPhotoFixture(t)
		if statusOf(t, svc.DeletePhoto(context.Background(), memberOf7, "x")) != http.StatusNotFound {
			t.Fatalf("expected 404")
		}
	})

	t.Run("other oficina", func(t *testing.T) {
		svc, orders, photos, _ := newPhotoFixture(t)
		photos.EXPECT().GetPhoto(gomock.Any(), int64(4)).Return(photo, nil)
		orders.EXPECT().GetOrder(gomock.Any(), int64(5)).Return(&models.ServiceOrder{ID: 5, OficinaID: int64Ptr(7)}, nil)

		if statusOf(t, svc.DeletePhoto(context.Background(), memberOf9, "4")) != http.StatusForbidden {
			t.Fatalf("expected 403")
		}
	})

	t.Run("object store failure keeps the row", func(t *testing.T) {
		svc, orders, photos, store := newPhotoFixture(t)
		photos.EXPECT().GetPhoto(gomock.Any(), int64(4)).Return(photo, nil)
		orders.EXPECT().GetOrder(gomock.Any(), int64(5)).Return(&models.ServiceOrder{ID: 5, OficinaID: int64Ptr(7)}, nil)
		store.EXPECT().KeyFromURL(photo.Path).Return("os/5/a.jpg", nil)
		store.EXPECT().Delete(gomock.Any(), "os/5/a.jpg").Return(errors.New("s3 down"))

		if err := svc.DeletePhoto(context.Background(), memberOf7, "4"); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("success", func(t *testing.T) {
		svc, orders, photos, store := newPhotoFixture(t)
		photos.EXPECT().GetPhoto(gomock.Any(), int64(4)).Return(photo, nil)
		orders.EXPECT().GetOrder(gomock.Any(), int64(5)).Return(&models.ServiceOrder{ID: 5, OficinaID: int64Ptr(7)}, nil)
		gomock.InOrder(
			store.EXPECT().KeyFromURL(photo.Path).Return("os/5/a.jpg", nil),
			store.EXPECT().Delete(gomock.Any(), "os/5/a.jpg").Return(nil),
			photos.EXPECT().DeletePhoto(gomock.Any(), int64(4)).Return(nil),
		)

		if err := svc.DeletePhoto(context.Background(), superadmin, "4"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
