package bankgo

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	// maxConflictAttempts bounds internal retries of ErrConflict.
	// Every other failure kind surfaces on the first attempt.
	maxConflictAttempts = 3
	conflictBackoff     = 25 * time.Millisecond
)

// Ledger validates money movements and commits them through the
// repository. It holds no balance state between calls; every operation
// re-reads current balances inside its own store transaction.
type Ledger struct {
	repo Repository
	log  *zerolog.Logger
}

func NewLedger(repo Repository, log *zerolog.Logger) *Ledger {
	return &Ledger{
		repo: repo,
		log:  log,
	}
}

func (l *Ledger) Deposit(ctx context.Context, number snowflake.ID, amount decimal.Decimal) (*decimal.Decimal, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	return l.withConflictRetry(ctx, "deposit", func() (*decimal.Decimal, error) {
		return l.repo.CreditBalance(ctx, number, amount)
	})
}

func (l *Ledger) Withdraw(ctx context.Context, number snowflake.ID, amount decimal.Decimal) (*decimal.Decimal, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	return l.withConflictRetry(ctx, "withdraw", func() (*decimal.Decimal, error) {
		return l.repo.DebitBalance(ctx, number, amount)
	})
}

// Transfer moves amount between two distinct accounts. The returned
// balance is the source account's. Both legs commit as one unit or not
// at all.
func (l *Ledger) Transfer(ctx context.Context, from, to snowflake.ID, amount decimal.Decimal) (*decimal.Decimal, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if from == to {
		return nil, ErrSameAccount
	}
	return l.withConflictRetry(ctx, "transfer", func() (*decimal.Decimal, error) {
		return l.repo.TransferBalances(ctx, from, to, amount)
	})
}

// withConflictRetry re-runs op on ErrConflict. A conflicted attempt
// left no store mutation behind, so the retry restarts from scratch.
func (l *Ledger) withConflictRetry(
	ctx context.Context,
	op string,
	fn func() (*decimal.Decimal, error),
) (*decimal.Decimal, error) {
	var (
		bal *decimal.Decimal
		err error
	)
	for attempt := 1; attempt <= maxConflictAttempts; attempt++ {
		bal, err = fn()
		if err == nil || !errors.Is(err, ErrConflict) {
			return bal, err
		}
		if attempt == maxConflictAttempts {
			break
		}
		l.log.Warn().
			Str("op", op).
			Int("attempt", attempt).
			Msg("movement conflicted, retrying")
		select {
		case <-time.After(time.Duration(attempt) * conflictBackoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	l.log.Error().
		Str("op", op).
		Msg("movement conflicted on every attempt")
	return nil, err
}
