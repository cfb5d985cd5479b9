package bankgo

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository is the account store contract. Point reads are
// individually atomic; the balance-mutating operations each run as a
// single store transaction so a movement commits fully or not at all.
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	// CreateUserWithAccount creates a user and their account as one
	// atomic unit; neither row is visible unless both inserts commit.
	CreateUserWithAccount(ctx context.Context, user *User, acct *Account) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByAccountNumber(ctx context.Context, number snowflake.ID) (*User, error)
	AddUserRole(ctx context.Context, email, role string) error

	CreateAccount(ctx context.Context, acct *Account) error
	GetAccountByNumber(ctx context.Context, number snowflake.ID) (*Account, error)
	GetAccountByUserID(ctx context.Context, userID uuid.UUID) (*Account, error)
	GetAccountCharges(ctx context.Context, number snowflake.ID) ([]Charge, error)

	// CreditBalance atomically increases the account balance and
	// returns the new balance.
	CreditBalance(ctx context.Context, number snowflake.ID, amount decimal.Decimal) (*decimal.Decimal, error)
	// DebitBalance atomically checks funds and decreases the balance,
	// returning the new balance. The check and the write observe the
	// same locked row.
	DebitBalance(ctx context.Context, number snowflake.ID, amount decimal.Decimal) (*decimal.Decimal, error)
	// TransferBalances moves amount between two distinct accounts as
	// one atomic unit and returns the new source balance. Rows are
	// locked in ascending account-number order.
	TransferBalances(ctx context.Context, from, to snowflake.ID, amount decimal.Decimal) (*decimal.Decimal, error)
}
