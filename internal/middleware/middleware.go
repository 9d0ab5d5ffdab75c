// Package middleware reúne os envoltórios HTTP comuns às rotas da API.
package middleware

import (
	"context"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/oficina-digital/vistoria/internal/logx"
	"github.com/oficina-digital/vistoria/internal/models"
	"github.com/oficina-digital/vistoria/internal/utils"

	"github.com/google/uuid"
)

type ctxKey int

const callerKey ctxKey = iota

// RequestIDHeader é o cabeçalho que carrega o id da requisição.
const RequestIDHeader = "X-Request-ID"

// TokenVerifier valida o token bearer e devolve o chamador.
type TokenVerifier interface {
	VerifyToken(token string) (models.Caller, error)
}

// WithCaller guarda o chamador autenticado no contexto.
func WithCaller(ctx context.Context, caller models.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFrom recupera o chamador autenticado.
func CallerFrom(ctx context.Context) (models.Caller, bool) {
	caller, ok := ctx.Value(callerKey).(models.Caller)
	return caller, ok
}

// Auth exige um token bearer: ausente responde 401, inválido responde 403.
func Auth(verifier TokenVerifier, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := ""
		if len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
			token = strings.TrimSpace(header[len("Bearer "):])
		}
		if token == "" {
			utils.SendErrorResponse(w, http.StatusUnauthorized, "Token de acesso não fornecido.")
			return
		}

		caller, err := verifier.VerifyToken(token)
		if err != nil {
			utils.SendErrorResponse(w, http.StatusForbidden, "Token inválido ou expirado.")
			return
		}
		next(w, r.WithContext(WithCaller(r.Context(), caller)))
	}
}

// RequireSuperadmin restringe a rota ao superadmin. Deve vir depois de Auth.
func RequireSuperadmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := CallerFrom(r.Context())
		if !ok || !caller.IsSuperadmin() {
			utils.SendErrorResponse(w, http.StatusForbidden, "Acesso negado. Rota exclusiva do superadmin.")
			return
		}
		next(w, r)
	}
}

// statusWriter captura status e bytes para o log.
type statusWriter struct {
	http.ResponseWriter
	status int
	nbytes int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.nbytes += n
	return n, err
}

// Logging registra método, caminho, status, bytes e duração de cada requisição.
func Logging(logger *logx.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		defer func() {
			logger.Infof("%s %s %s -> %d (%s) bytes=%d", requestID, r.Method, r.URL.Path, sw.status, time.Since(start), sw.nbytes)
		}()
		next.ServeHTTP(sw, r)
	})
}

// Recover transforma um panic do handler em 500.
func Recover(logger *logx.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Errorf("panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				utils.SendErrorResponse(w, http.StatusInternalServerError, "Erro interno do servidor.")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// CORS libera a origem configurada e responde às requisições preflight.
func CORS(allowOrigin string, next http.Handler) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", allowOrigin)
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+RequestIDHeader)
		h.Set("Access-Control-Expose-Headers", "Content-Disposition, "+RequestIDHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
