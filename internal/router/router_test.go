package router

import (
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oficina-digital/vistoria/internal/handlers"
	"github.com/oficina-digital/vistoria/internal/logx"
	"github.com/oficina-digital/vistoria/internal/models"
	"github.com/oficina-digital/vistoria/internal/repository/mocks"
	"github.com/oficina-digital/vistoria/internal/services"

	"go.uber.org/mock/gomock"
)

type stubVerifier map[string]models.Caller

func (s stubVerifier) VerifyToken(token string) (models.Caller, error) {
	caller, ok := s[token]
	if !ok {
		return models.Caller{}, errors.New("invalid")
	}
	return caller, nil
}

func int64Ptr(v int64) *int64 { return &v }

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockChecklistRepository, *mocks.MockOficinaRepository) {
	ctrl := gomock.NewController(t)
	orders := mocks.NewMockOrderRepository(ctrl)
	checklist := mocks.NewMockChecklistRepository(ctrl)
	photos := mocks.NewMockPhotoRepository(ctrl)
	oficinas := mocks.NewMockOficinaRepository(ctrl)
	users := mocks.NewMockUserRepository(ctrl)

	logger := logx.New(log.New(io.Discard, "", 0), "ERROR")
	h := Handlers{
		Ping:      handlers.NewPingHandler(nil, logger, time.Second),
		Auth:      handlers.NewAuthHandler(services.NewAuthService(users, nil, "segredo", time.Hour, 0, 0, logger), logger, time.Second),
		Order:     handlers.NewOrderHandler(services.NewOrderService(orders, checklist, photos, nil, logger), logger, time.Second),
		Checklist: handlers.NewChecklistHandler(services.NewChecklistService(orders, checklist), logger, time.Second),
		Photo:     handlers.NewPhotoHandler(services.NewPhotoService(orders, photos, nil, logger), logger, time.Second),
		Report:    handlers.NewReportHandler(services.NewReportService(orders, checklist, photos, nil, nil, logger), logger, time.Second),
		Admin:     handlers.NewAdminHandler(services.NewAdminService(oficinas, users), logger, time.Second),
	}
	verifier := stubVerifier{
		"membro": {UserID: 2, Role: models.RoleMember, OficinaID: int64Ptr(7)},
		"root":   {UserID: 1, Role: models.RoleSuperadmin},
	}
	return InitRoutes(h, verifier, logger, "https://app.example.com"), checklist, oficinas
}

func TestInitRoutes(t *testing.T) {
	cases := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{name: "ping", method: http.MethodGet, path: "/api/ping", want: http.StatusOK},
		{name: "ping wrong method", method: http.MethodPost, path: "/api/ping", want: http.StatusMethodNotAllowed},
		{name: "unknown route", method: http.MethodGet, path: "/api/nada", want: http.StatusNotFound},
		{name: "items without token", method: http.MethodGet, path: "/api/checklist/itens", want: http.StatusUnauthorized},
		{name: "items bad token", method: http.MethodGet, path: "/api/checklist/itens", token: "forjado", want: http.StatusForbidden},
		{name: "admin as member", method: http.MethodGet, path: "/api/admin/oficinas", token: "membro", want: http.StatusForbidden},
		{name: "admin without token", method: http.MethodDelete, path: "/api/admin/usuarios/3", want: http.StatusUnauthorized},
		{name: "preflight", method: http.MethodOptions, path: "/api/checklist/fotos", want: http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, _, _ := newTestRouter(t)
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
				t.Fatalf("missing cors header, got %q", got)
			}
		})
	}
}

func TestInitRoutes_Authenticated(t *testing.T) {
	t.Run("member lists items", func(t *testing.T) {
		router, checklist, _ := newTestRouter(t)
		checklist.EXPECT().ListItems(gomock.Any()).Return([]models.ChecklistItem{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/checklist/itens", nil)
		req.Header.Set("Authorization", "Bearer membro")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if w.Header().Get("X-Request-ID") == "" {
			t.Fatalf("missing request id")
		}
	})

	t.Run("superadmin lists oficinas", func(t *testing.T) {
		router, _, oficinas := newTestRouter(t)
		oficinas.EXPECT().ListOficinas(gomock.Any()).Return([]models.Oficina{{ID: 7, NomeFantasia: "Auto Centro"}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/admin/oficinas", nil)
		req.Header.Set("Authorization", "Bearer root")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}
