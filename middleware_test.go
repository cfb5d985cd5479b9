package bankgo_test

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/sync/semaphore"

	"github.com/gtpons/bankgo"
	"github.com/gtpons/bankgo/mocks"
)

func TestValidationMWDeposit(t *testing.T) {
	t.Run("rejects a missing account number before the service runs", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		v := bankgo.NewValidationMiddleware()(svc)

		bal, err := v.Deposit(context.Background(), bankgo.ChargeReq{
			Amount: decimal.NewFromInt(100),
		})
		as.Nil(bal)
		var br bankgo.ErrBadRequest
		as.ErrorAs(err, &br)
		as.Contains(br.Fields, "account_number")
	})

	t.Run("passes a well-formed request through", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		v := bankgo.NewValidationMiddleware()(svc)

		bal := decimal.NewFromInt(100)
		svc.EXPECT().
			Deposit(gomock.Any(), gomock.Any()).
			Return(&bal, nil).
			Times(1)

		got, err := v.Deposit(context.Background(), bankgo.ChargeReq{
			AccountNumber: snowflake.ParseInt64(7241407009730334720),
			Amount:        bal,
		})
		reqrd.Nil(err)
		as.True(bal.Equal(*got))
	})
}

func TestValidationMWWithdraw(t *testing.T) {
	t.Run("rejects a missing password before the service runs", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		v := bankgo.NewValidationMiddleware()(svc)

		bal, err := v.Withdraw(context.Background(), bankgo.ChargeReq{
			AccountNumber: snowflake.ParseInt64(7241407009730334720),
			Amount:        decimal.NewFromInt(100),
		})
		as.Nil(bal)
		var br bankgo.ErrBadRequest
		as.ErrorAs(err, &br)
		as.Contains(br.Fields, "password")
	})
}

func TestValidationMWTransfer(t *testing.T) {
	t.Run("rejects missing account numbers before the service runs", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		v := bankgo.NewValidationMiddleware()(svc)

		bal, err := v.Transfer(context.Background(), bankgo.TransferReq{
			Amount: decimal.NewFromInt(100),
		})
		as.Nil(bal)
		var br bankgo.ErrBadRequest
		as.ErrorAs(err, &br)
		as.Contains(br.Fields, "from_account_number")
		as.Contains(br.Fields, "to_account_number")
	})
}

func TestLimitMW(t *testing.T) {
	t.Run("sheds a deposit when the limit is saturated", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		limits := &bankgo.ServiceLimits{
			Deposit:  semaphore.NewWeighted(1),
			Withdraw: semaphore.NewWeighted(1),
			Transfer: semaphore.NewWeighted(1),
		}
		l := bankgo.NewLimitMiddleware(limits)(svc)

		reqrd.Nil(limits.Deposit.Acquire(context.Background(), 1))
		defer limits.Deposit.Release(1)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		bal, err := l.Deposit(ctx, bankgo.ChargeReq{
			AccountNumber: snowflake.ParseInt64(7241407009730334720),
			Amount:        decimal.NewFromInt(10),
		})
		as.Nil(bal)
		as.ErrorIs(err, bankgo.ErrOverloaded)
	})
}

func TestCircuitBreakMW(t *testing.T) {
	t.Run("business rejections do not trip the breaker", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		brkrs := bankgo.NewServiceBreaker(gobreaker.Settings{
			Name: "test",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 2
			},
		})
		c := bankgo.NewCircuitBreakMiddleware(brkrs)(svc)

		svc.EXPECT().
			Withdraw(gomock.Any(), gomock.Any()).
			Return(nil, bankgo.ErrInsufficientFunds).
			Times(4)

		req := bankgo.ChargeReq{
			AccountNumber: snowflake.ParseInt64(7241407009730334720),
			Amount:        decimal.NewFromInt(9999),
			Password:      "hunter2hunter2",
		}
		for i := 0; i < 4; i++ {
			_, err := c.Withdraw(context.Background(), req)
			as.ErrorIs(err, bankgo.ErrInsufficientFunds)
		}
	})

	t.Run("store faults trip the breaker open", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		brkrs := bankgo.NewServiceBreaker(gobreaker.Settings{
			Name: "test",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 2
			},
		})
		c := bankgo.NewCircuitBreakMiddleware(brkrs)(svc)

		svc.EXPECT().
			Transfer(gomock.Any(), gomock.Any()).
			Return(nil, bankgo.ErrStoreUnavailable).
			Times(2)

		req := bankgo.TransferReq{
			FromAccountNumber: snowflake.ParseInt64(7241407009730334720),
			ToAccountNumber:   snowflake.ParseInt64(7241301734201495552),
			Amount:            decimal.NewFromInt(10),
		}
		for i := 0; i < 2; i++ {
			_, err := c.Transfer(context.Background(), req)
			as.ErrorIs(err, bankgo.ErrStoreUnavailable)
		}

		_, err := c.Transfer(context.Background(), req)
		as.ErrorIs(err, bankgo.ErrOverloaded)
	})
}
