package http

import (
	"context"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	domuser "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/user"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/logx"
	adminuc "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/usecase/admin"
)

type ctxKey int

const (
	ctxCartKey ctxKey = iota
	ctxAdminKey
)

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			logx.Info().
				Str("request_id", chimw.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("http request")
		}()
		next.ServeHTTP(ww, r)
	})
}

// cartSession gives every browser a signed cart id, issuing a new one when
// the cookie is missing or tampered with.
func (a *API) cartSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := a.cartCookie.Read(r)
		if !ok {
			id = uuid.NewString()
			a.cartCookie.Write(w, id)
		}
		ctx := context.WithValue(r.Context(), ctxCartKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func cartID(ctx context.Context) string {
	id, _ := ctx.Value(ctxCartKey).(string)
	return id
}

// adminSession resolves the controller of the signed-in admin. A valid token
// whose controller is gone after a restart is resumed into a fresh one.
func (a *API) adminSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := a.resolveController(r)
		if err != nil {
			a.clearAdminCookie(w)
			handleDomainError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), ctxAdminKey, ctrl)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *API) resolveController(r *http.Request) (*adminuc.Controller, error) {
	cookie, err := r.Cookie(a.adminCookie.Name)
	if err != nil || cookie.Value == "" {
		return nil, domuser.ErrUnauthorized
	}
	claims, err := a.authSvc.ParseToken(cookie.Value)
	if err != nil {
		return nil, err
	}

	// A signed-out controller stays registered until its token expires, so
	// the token cannot be resumed.
	if ctrl, ok := a.sessions.Get(claims.SessionID); ok {
		if ctrl.State() != adminuc.Authenticated {
			return nil, domuser.ErrUnauthorized
		}
		return ctrl, nil
	}

	session, err := a.authSvc.Resume(r.Context(), cookie.Value)
	if err != nil {
		return nil, err
	}
	ctrl := adminuc.NewController(a.baseCtx, session, a.products, a.bucket)
	a.sessions.Put(ctrl)
	logx.Debug().Str("session", session.ID()).Msg("admin session resumed")
	return ctrl, nil
}

func controllerFrom(ctx context.Context) *adminuc.Controller {
	ctrl, _ := ctx.Value(ctxAdminKey).(*adminuc.Controller)
	return ctrl
}
