package bankgo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type balanceJSONResp struct {
	Balance decimal.Decimal `json:"balance"`
}

type accountJSONResp struct {
	AccountNumber snowflake.ID    `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
}

type messageJSONResp struct {
	Message string `json:"message"`
}

type claimsCtxKey struct{}

func NewHTTPHandler(svc Service, tokens *TokenIssuer, log *zerolog.Logger) http.Handler {
	hndlr := &httpHandler{
		Svc:    svc,
		Tokens: tokens,
		Log:    log,
	}
	mux := chi.NewMux()
	mux.NotFound(HTTPNotFound)
	mux.Route("/auth", func(r chi.Router) {
		r.Post("/register", hndlr.Register)
		r.Post("/login", hndlr.Login)
		r.With(hndlr.requireAuth, hndlr.requireAdmin).Post("/assign-role", hndlr.AssignRole)
	})
	mux.Route("/accounts", func(r chi.Router) {
		r.Get("/me", hndlr.AccountInfo)
		r.Route("/{number:[0-9]+}", func(rr chi.Router) {
			rr.Use(hndlr.requireAuth)
			rr.With(hndlr.requireAdmin).Get("/", hndlr.AccountByNumber)
			rr.Get("/statement", hndlr.Statement)
		})
	})
	mux.Route("/transactions", func(r chi.Router) {
		r.Post("/deposit", hndlr.Deposit)
		r.Post("/withdraw", hndlr.Withdraw)
		r.Post("/transfer", hndlr.Transfer)
	})

	return mux
}

type httpHandler struct {
	Svc    Service
	Tokens *TokenIssuer
	Log    *zerolog.Logger
}

func (h *httpHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterReq
	if !h.decode(w, r, "register", &req) {
		return
	}
	resp, err := h.Svc.Register(r.Context(), req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *httpHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginReq
	if !h.decode(w, r, "login", &req) {
		return
	}
	resp, err := h.Svc.Login(r.Context(), req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *httpHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	var req AssignRoleReq
	if !h.decode(w, r, "assign-role", &req) {
		return
	}
	if err := h.Svc.AssignRole(r.Context(), req); err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageJSONResp{Message: "role assigned"})
}

func (h *httpHandler) AccountInfo(w http.ResponseWriter, r *http.Request) {
	req := AccountInfoReq{
		Email:    r.Header.Get("email"),
		Password: r.Header.Get("password"),
	}
	acct, err := h.Svc.AccountInfo(r.Context(), req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accountJSONResp{
		AccountNumber: acct.Number,
		Balance:       acct.Balance,
	})
}

func (h *httpHandler) AccountByNumber(w http.ResponseWriter, r *http.Request) {
	number, ok := h.urlAccountNumber(w, r, "account")
	if !ok {
		return
	}
	acct, err := h.Svc.AccountByNumber(r.Context(), number)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accountJSONResp{
		AccountNumber: acct.Number,
		Balance:       acct.Balance,
	})
}

func (h *httpHandler) Statement(w http.ResponseWriter, r *http.Request) {
	number, ok := h.urlAccountNumber(w, r, "statement")
	if !ok {
		return
	}
	claims, _ := r.Context().Value(claimsCtxKey{}).(*TokenClaims)
	if claims == nil {
		WriteHTTPError(w, ErrInvalidCredentials)
		return
	}
	if !claims.HasRole(RoleAdmin) {
		acct, err := h.Svc.AccountByNumber(r.Context(), number)
		if err != nil {
			WriteHTTPError(w, err)
			return
		}
		if acct.UserID.String() != claims.Subject {
			WriteHTTPError(w, ErrForbidden)
			return
		}
	}

	// Buffered; no status is committed until the render succeeds.
	var buf bytes.Buffer
	if err := h.Svc.Statement(r.Context(), &buf, StatementReq{AccountNumber: number}); err != nil {
		WriteHTTPError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.Log.Err(err).Str("method", "statement").Msg("error writing statement")
	}
}

func (h *httpHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req ChargeReq
	if !h.decode(w, r, "deposit", &req) {
		return
	}
	bal, err := h.Svc.Deposit(r.Context(), req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceJSONResp{Balance: *bal})
}

func (h *httpHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req ChargeReq
	if !h.decode(w, r, "withdraw", &req) {
		return
	}
	bal, err := h.Svc.Withdraw(r.Context(), req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceJSONResp{Balance: *bal})
}

func (h *httpHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferReq
	if !h.decode(w, r, "transfer", &req) {
		return
	}
	bal, err := h.Svc.Transfer(r.Context(), req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceJSONResp{Balance: *bal})
}

func (h *httpHandler) decode(w http.ResponseWriter, r *http.Request, method string, dst interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.Log.Err(err).Str("method", method).Msg("error unmarshalling JSON")
		WriteHTTPError(w, ErrBadRequest{Fields: map[string]string{"request body": "malformed JSON"}})
		return false
	}
	return true
}

func (h *httpHandler) urlAccountNumber(w http.ResponseWriter, r *http.Request, method string) (snowflake.ID, bool) {
	num, err := snowflake.ParseString(chi.URLParam(r, "number"))
	if err != nil {
		h.Log.Err(err).Str("method", method).Msg("error parsing account number")
		WriteHTTPError(w, ErrBadRequest{Fields: map[string]string{"number": "invalid format"}})
		return 0, false
	}
	return num, true
}

func (h *httpHandler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" {
			WriteHTTPError(w, ErrInvalidCredentials)
			return
		}
		claims, err := h.Tokens.Verify(raw)
		if err != nil {
			WriteHTTPError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), claimsCtxKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *httpHandler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := r.Context().Value(claimsCtxKey{}).(*TokenClaims)
		if claims == nil || !claims.HasRole(RoleAdmin) {
			WriteHTTPError(w, ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("response encoding failed")
	}
}

func WriteHTTPError(w http.ResponseWriter, err error) {
	var ne error
	defer func() {
		if ne != nil {
			log.Error().
				Err(ne).
				Msg("error response encoding failed")
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	errnf := &ErrNotFound{}
	errbr := &ErrBadRequest{}
	switch {
	case errors.As(err, errnf):
		w.WriteHeader(http.StatusNotFound)
		ne = json.NewEncoder(w).Encode(errnf)
	case errors.As(err, errbr):
		w.WriteHeader(http.StatusBadRequest)
		ne = json.NewEncoder(w).Encode(errbr)
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrSameAccount),
		errors.Is(err, ErrDuplicateEmail):
		w.WriteHeader(http.StatusBadRequest)
		ne = json.NewEncoder(w).Encode(messageJSONResp{Message: err.Error()})
	case errors.Is(err, ErrInvalidCredentials):
		w.WriteHeader(http.StatusUnauthorized)
		ne = json.NewEncoder(w).Encode(messageJSONResp{Message: err.Error()})
	case errors.Is(err, ErrForbidden):
		w.WriteHeader(http.StatusForbidden)
		ne = json.NewEncoder(w).Encode(messageJSONResp{Message: err.Error()})
	case errors.Is(err, ErrInsufficientFunds):
		w.WriteHeader(http.StatusUnprocessableEntity)
		ne = json.NewEncoder(w).Encode(messageJSONResp{Message: err.Error()})
	case errors.Is(err, ErrConflict):
		w.WriteHeader(http.StatusConflict)
		ne = json.NewEncoder(w).Encode(messageJSONResp{Message: err.Error()})
	case errors.Is(err, ErrStoreUnavailable), errors.Is(err, ErrOverloaded):
		w.WriteHeader(http.StatusServiceUnavailable)
		ne = json.NewEncoder(w).Encode(messageJSONResp{Message: "service unavailable"})
	default:
		w.WriteHeader(http.StatusInternalServerError)
		ne = json.NewEncoder(w).Encode(messageJSONResp{Message: "server error"})
	}
}

func HTTPNotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	w.Header().Set("Content-Type", "application/json")
	resp := map[string]string{
		"path": r.URL.Path,
	}
	json.NewEncoder(w).Encode(resp)
}
