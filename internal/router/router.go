package router

import (
	"net/http"

	"github.com/oficina-digital/vistoria/internal/handlers"
	"github.com/oficina-digital/vistoria/internal/logx"
	"github.com/oficina-digital/vistoria/internal/middleware"
)

// Handlers agrupa os handlers registrados nas rotas.
type Handlers struct {
	Ping      *handlers.PingHandler
	Auth      *handlers.AuthHandler
	Order     *handlers.OrderHandler
	Checklist *handlers.ChecklistHandler
	Photo     *handlers.PhotoHandler
	Report    *handlers.ReportHandler
	Admin     *handlers.AdminHandler
}

// InitRoutes registra as rotas da API e aplica CORS, log e recuperação de panic.
func InitRoutes(h Handlers, verifier middleware.TokenVerifier, logger *logx.Logger, corsOrigin string) http.Handler {
	mux := http.NewServeMux()

	auth := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.Auth(verifier, next)
	}
	superadmin := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.Auth(verifier, middleware.RequireSuperadmin(next))
	}

	mux.HandleFunc("GET /api/ping", h.Ping.Ping)

	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("PUT /api/auth/senha", auth(h.Auth.ChangePassword))

	mux.HandleFunc("GET /api/checklist/itens", auth(h.Checklist.ListItems))
	mux.HandleFunc("POST /api/checklist/respostas", auth(h.Checklist.SaveAnswers))

	mux.HandleFunc("POST /api/checklist/ordem-servico", auth(h.Order.CreateOrder))
	mux.HandleFunc("GET /api/checklist/ordens-servico", auth(h.Order.ListOrders))
	mux.HandleFunc("GET /api/checklist/ordem-servico/{id}", auth(h.Order.GetOrder))
	mux.HandleFunc("PUT /api/checklist/ordem-servico/{id}", auth(h.Order.UpdateOrder))
	mux.HandleFunc("DELETE /api/checklist/ordem-servico/{id}", auth(h.Order.DeleteOrder))
	mux.HandleFunc("POST /api/checklist/ordem-servico/{id}/assinatura", auth(h.Order.SaveSignature))
	mux.HandleFunc("GET /api/checklist/ordem-servico/{id}/pdf", auth(h.Report.GeneratePDF))

	mux.HandleFunc("POST /api/checklist/fotos", auth(h.Photo.UploadPhotos))
	mux.HandleFunc("DELETE /api/checklist/fotos/{foto_id}", auth(h.Photo.DeletePhoto))

	mux.HandleFunc("GET /api/admin/oficinas", superadmin(h.Admin.ListOficinas))
	mux.HandleFunc("POST /api/admin/oficinas", superadmin(h.Admin.CreateOficina))
	mux.HandleFunc("PUT /api/admin/oficinas/{id}", superadmin(h.Admin.UpdateOficina))
	mux.HandleFunc("DELETE /api/admin/oficinas/{id}", superadmin(h.Admin.DeleteOficina))

	mux.HandleFunc("GET /api/admin/usuarios", superadmin(h.Admin.ListUsers))
	mux.HandleFunc("POST /api/admin/usuarios", superadmin(h.Admin.CreateUser))
	mux.HandleFunc("PUT /api/admin/usuarios/{id}", superadmin(h.Admin.UpdateUser))
	mux.HandleFunc("DELETE /api/admin/usuarios/{id}", superadmin(h.Admin.DeleteUser))

	return middleware.CORS(corsOrigin, middleware.Logging(logger, middleware.Recover(logger, mux)))
}
