package cart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"RocketShoes/internal/auth"
	"RocketShoes/pkg/kit"
)

const (
	maxUpdateBody   = 1 << 10
	defaultTokenTTL = 24 * time.Hour
)

type Server struct {
	Sessions *Sessions
	Tokens   *auth.TokenMaker
	TokenTTL time.Duration
	Log      *zap.Logger
}

type ctxKey string

const sessionKey ctxKey = "session_id"

func SessionFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(sessionKey).(string)
	return v, ok && v != ""
}

// RequireSession resolves the bearer token into a session id.
func (s *Server) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, ok := kit.BearerToken(r)
		if !ok {
			kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
			return
		}

		claims, err := s.Tokens.Parse(tok)
		if err != nil {
			kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, claims.SessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	sess, err := s.Tokens.NewSession(ttl)
	if err != nil {
		s.logger().Error("issue session token", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusCreated, sess)
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	st, ok := s.store(w, r)
	if !ok {
		return
	}
	kit.WriteJSON(w, http.StatusOK, st.Products())
}

func (s *Server) addProduct(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(ctx context.Context, st *Store, id int64) error {
		return st.AddProduct(ctx, id)
	})
}

func (s *Server) removeProduct(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(ctx context.Context, st *Store, id int64) error {
		return st.RemoveProduct(ctx, id)
	})
}

type updateAmountReq struct {
	Amount *int `json:"amount"`
}

func (s *Server) updateProductAmount(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpdateBody)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req updateAmountReq
	if err := dec.Decode(&req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": "extra data after json object"})
		return
	}
	if req.Amount == nil {
		kit.WriteError(w, r, http.StatusBadRequest, "amount required", nil)
		return
	}

	s.mutate(w, r, func(ctx context.Context, st *Store, id int64) error {
		return st.UpdateProductAmount(ctx, id, *req.Amount)
	})
}

func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op func(context.Context, *Store, int64) error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "bad product id", map[string]any{"id": chi.URLParam(r, "id")})
		return
	}

	st, ok := s.store(w, r)
	if !ok {
		return
	}

	if err := op(r.Context(), st, id); err != nil {
		writeCartError(w, r, err)
		return
	}

	kit.WriteJSON(w, http.StatusOK, st.Products())
}

func (s *Server) store(w http.ResponseWriter, r *http.Request) (*Store, bool) {
	sid, ok := SessionFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return nil, false
	}

	st, err := s.Sessions.Get(r.Context(), sid)
	if err != nil {
		s.logger().Error("load cart failed", zap.Error(err), zap.String("session_id", sid))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "cart unavailable", nil)
		return nil, false
	}
	return st, true
}

func writeCartError(w http.ResponseWriter, r *http.Request, err error) {
	var cerr *Error
	if !errors.As(err, &cerr) {
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	status := http.StatusInternalServerError
	switch cerr.Kind {
	case OutOfStock:
		status = http.StatusConflict
	case NotFound:
		status = http.StatusNotFound
	case FetchFailed:
		status = http.StatusBadGateway
	}

	kit.WriteError(w, r, status, cerr.Message, map[string]any{
		"kind":       cerr.Kind.String(),
		"product_id": cerr.ProductID,
	})
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
