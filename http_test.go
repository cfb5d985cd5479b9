package bankgo_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/gtpons/bankgo"
	"github.com/gtpons/bankgo/mocks"
)

var testTokens = bankgo.NewTokenIssuer("test-secret", time.Hour)

func TestHTTPDeposit(t *testing.T) {
	nooplog := zerolog.Nop()

	t.Run("returns the new balance on success", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		bal := decimal.NewFromInt(1234)
		svc.EXPECT().
			Deposit(gomock.Any(), gomock.AssignableToTypeOf(bankgo.ChargeReq{})).
			Return(&bal, nil).
			Times(1)

		hndlr := bankgo.NewHTTPHandler(svc, testTokens, &nooplog)
		body := bytes.NewBufferString(`{"account_number":"1834563581361305763","amount":1234.00}`)
		req := httptest.NewRequest(http.MethodPost, "/transactions/deposit", body)
		w := httptest.NewRecorder()
		hndlr.ServeHTTP(w, req)

		as.Equal(http.StatusOK, w.Code)
		resp := map[string]string{}
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		as.Nil(err)
		as.Contains(resp, "balance")
		as.Equal("1234", resp["balance"])
	})

	t.Run("returns 400 on malformed request body", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		hndlr := bankgo.NewHTTPHandler(svc, testTokens, &nooplog)

		body := bytes.NewBufferString(`{"amount":1234.00`)
		req := httptest.NewRequest(http.MethodPost, "/transactions/deposit", body)
		w := httptest.NewRecorder()
		hndlr.ServeHTTP(w, req)

		as.Equal(http.StatusBadRequest, w.Code)
		resp := map[string]map[string]string{}
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		reqrd.Nil(err)
		as.Contains(resp, "fields")
		as.Contains(resp["fields"], "request body")
	})

	t.Run("returns 400 on a rejected amount", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			Deposit(gomock.Any(), gomock.Any()).
			Return(nil, bankgo.ErrInvalidAmount).
			Times(1)

		hndlr := bankgo.NewHTTPHandler(svc, testTokens, &nooplog)
		body := bytes.NewBufferString(`{"account_number":"1834563581361305763","amount":-5}`)
		req := httptest.NewRequest(http.MethodPost, "/transactions/deposit", body)
		w := httptest.NewRecorder()
		hndlr.ServeHTTP(w, req)

		as.Equal(http.StatusBadRequest, w.Code)
	})
}

func TestHTTPWithdraw(t *testing.T) {
	nooplog := zerolog.Nop()

	t.Run("returns 422 on insufficient funds", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			Withdraw(gomock.Any(), gomock.Any()).
			Return(nil, bankgo.ErrInsufficientFunds).
			Times(1)

		hndlr := bankgo.NewHTTPHandler(svc, testTokens, &nooplog)
		body := bytes.NewBufferString(`{"account_number":"1834563581361305763","amount":9999,"password":"hunter2"}`)
		req := httptest.NewRequest(http.MethodPost, "/transactions/withdraw", body)
		w := httptest.NewRecorder()
		hndlr.ServeHTTP(w, req)

		as.Equal(http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("returns 404 on an unknown account", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			Withdraw(gomock.Any(), gomock.Any()).
			Return(nil, bankgo.ErrNotFound{Number: "1834563581361305763"}).
			Times(1)

		hndlr := bankgo.NewHTTPHandler(svc, testTokens, &nooplog)
		body := bytes.NewBufferString(`{"account_number":"1834563581361305763","amount":10,"password":"hunter2"}`)
		req := httptest.NewRequest(http.MethodPost, "/transactions/withdraw", body)
		w := httptest.NewRecorder()
		hndlr.ServeHTTP(w, req)

		as.Equal(http.StatusNotFound, w.Code)
	})

	t.Run("returns 401 on a wrong password", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			Withdraw(gomock.Any(), gomock.Any()).
			Return(nil, bankgo.ErrInvalidCredentials).
			Times(1)

		hndlr := bankgo.NewHTTPHandler(svc, testTokens, &nooplog)
		body := bytes.NewBufferString(`{"account_number":"1834563581361305763","amount":10,"password":"wrong"}`)
		req := httptest.NewRequest(http.MethodPost, "/transactions/withdraw", body)
		w := httptest.NewRecorder()
		hndlr.ServeHTTP(w, req)

		as.Equal(http.StatusUnauthorized, w.Code)
	})
}

func TestHTTPTransfer(t *testing.T) {
	nooplog := zerolog.Nop()

	t.Run("returns 400 on a same-account transfer", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			Transfer(gomock.Any(), gomock.Any()).
			Return(nil, bankgo.ErrSameAccount).
			Times(1)

		hndlr := bankgo.NewHTTPHandler(svc, testTokens, &nooplog)
		body := bytes.NewBufferString(`{"from_account_number":"111","to_account_number":"111","amount":50}`)
		req := httptest.NewRequest(http.MethodPost, "/transactions/transfer", body)
		w := httptest.NewRecorder()
		hndlr.ServeHTTP(w, req)

		as.Equal(http.StatusBadRequest, w.Code)
	})

	t.Run("returns 409 when retries are exhausted", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			Transfer(gomock.Any(), gomock.Any()).
			Return(nil, bankgo.ErrConflict).
			Times(1)

		hndlr := bankgo.NewHTTPHandler(svc, testTokens, &nooplog)
		body := bytes.NewBufferString(`{"from_account_number":"111","to_account_number":"222","amount":50}`)
		req := httptest.NewRequest(http.MethodPost, "/transactions/transfer", body)
		w := httptest.NewRecorder()
		hndlr.ServeHTTP(w, req)

		as.Equal(http.StatusConflict, w.Code)
	})

	t.Run("returns 503 when the store is unavailable", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			Transfer(gomock.Any(), gomock.Any()).
			Return(nil, bankgo.ErrStoreUnavailable).
			Times(1)

		hndlr := bankgo.NewHTTPHandler(svc, testTokens, &nooplog)
		body := bytes.NewBufferString(`{"from_account_number":"111","to_account_number":"222","amount":50}`)
		req := httptest.NewRequest(http.MethodPost, "/transactions/transfer", body)
		w := httptest.NewRecorder()
		hndlr.ServeHTTP(w, req)

		as.Equal(http.StatusServiceUnavailable, w.Code)
	})
}

func TestHTTPStatement(t *testing.T) {
	nooplog := zerolog.Nop()

	t.Run("returns 404 for an unknown account", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			Statement(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(bankgo.ErrNotFound{Number: "1834563581361305763"}).
			Times(1)

		hndlr := bankgo.NewHTTPHandler(svc, testTokens, &nooplog)
		token, err := testTokens.Issue(&bankgo.User{
			Email: "admin@bank.com",
			Roles: []string{bankgo.RoleAdmin},
		})
		reqrd.Nil(err)
		req := httptest.NewRequest(http.MethodGet, "/accounts/1834563581361305763/statement", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		hndlr.ServeHTTP(w, req)

		as.Equal(http.StatusNotFound, w.Code)
		as.NotEqual("application/pdf", w.Header().Get("Content-Type"))
	})

	t.Run("returns the rendered PDF on success", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			Statement(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, w io.Writer, _ bankgo.StatementReq) error {
				_, err := w.Write([]byte("%PDF-1.4"))
				return err
			}).
			Times(1)

		hndlr := bankgo.NewHTTPHandler(svc, testTokens, &nooplog)
		token, err := testTokens.Issue(&bankgo.User{
			Email: "admin@bank.com",
			Roles: []string{bankgo.RoleAdmin},
		})
		reqrd.Nil(err)
		req := httptest.NewRequest(http.MethodGet, "/accounts/1834563581361305763/statement", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		hndlr.ServeHTTP(w, req)

		as.Equal(http.StatusOK, w.Code)
		as.Equal("application/pdf", w.Header().Get("Content-Type"))
		as.Equal("%PDF-1.4", w.Body.String())
	})
}

func TestHTTPAccounts(t *testing.T) {
	nooplog := zerolog.Nop()

	t.Run("admin lookup requires a token", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		hndlr := bankgo.NewHTTPHandler(svc, testTokens, &nooplog)

		req := httptest.NewRequest(http.MethodGet, "/accounts/1834563581361305763", nil)
		w := httptest.NewRecorder()
		hndlr.ServeHTTP(w, req)

		as.Equal(http.StatusUnauthorized, w.Code)
	})

	t.Run("admin lookup rejects a non-admin token", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		hndlr := bankgo.NewHTTPHandler(svc, testTokens, &nooplog)

		token, err := testTokens.Issue(&bankgo.User{Email: "user@bank.com"})
		reqrd.Nil(err)
		req := httptest.NewRequest(http.MethodGet, "/accounts/1834563581361305763", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		hndlr.ServeHTTP(w, req)

		as.Equal(http.StatusForbidden, w.Code)
	})

	t.Run("admin lookup returns the account", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		hndlr := bankgo.NewHTTPHandler(svc, testTokens, &nooplog)

		acct := &bankgo.Account{Balance: decimal.NewFromInt(500)}
		svc.EXPECT().
			AccountByNumber(gomock.Any(), gomock.Any()).
			Return(acct, nil).
			Times(1)

		token, err := testTokens.Issue(&bankgo.User{
			Email: "admin@bank.com",
			Roles: []string{bankgo.RoleAdmin},
		})
		reqrd.Nil(err)
		req := httptest.NewRequest(http.MethodGet, "/accounts/1834563581361305763", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		hndlr.ServeHTTP(w, req)

		as.Equal(http.StatusOK, w.Code)
		resp := map[string]string{}
		err = json.Unmarshal(w.Body.Bytes(), &resp)
		reqrd.Nil(err)
		as.Equal("500", resp["balance"])
	})

	t.Run("account info checks email and password headers", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			AccountInfo(gomock.Any(), bankgo.AccountInfoReq{
				Email:    "user@bank.com",
				Password: "hunter2hunter2",
			}).
			Return(&bankgo.Account{Balance: decimal.NewFromInt(42)}, nil).
			Times(1)

		hndlr := bankgo.NewHTTPHandler(svc, testTokens, &nooplog)
		req := httptest.NewRequest(http.MethodGet, "/accounts/me", nil)
		req.Header.Set("email", "user@bank.com")
		req.Header.Set("password", "hunter2hunter2")
		w := httptest.NewRecorder()
		hndlr.ServeHTTP(w, req)

		as.Equal(http.StatusOK, w.Code)
	})

	t.Run("unknown path returns 404 with the path echoed", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		hndlr := bankgo.NewHTTPHandler(svc, testTokens, &nooplog)

		req := httptest.NewRequest(http.MethodGet, "/accounts/24j24g/balance", nil)
		w := httptest.NewRecorder()
		hndlr.ServeHTTP(w, req)

		as.Equal(http.StatusNotFound, w.Code)
		resp := map[string]string{}
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		reqrd.Nil(err)
		as.Contains(resp, "path")
	})
}
