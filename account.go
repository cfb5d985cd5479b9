package bankgo

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const RoleAdmin = "admin"

type User struct {
	ID           uuid.UUID
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Account carries durable balance state. Number is unique and
// immutable once assigned; Balance never goes below zero at any
// committed point.
type Account struct {
	Number    snowflake.ID
	UserID    uuid.UUID
	Balance   decimal.Decimal
	CreatedAt time.Time
}

// Charge is one journal row behind an account statement: a single
// debit or credit leg of a committed movement.
type Charge struct {
	ID            int64
	AccountNumber snowflake.ID
	Kind          string
	Op            string
	Amount        decimal.Decimal
	CreatedAt     time.Time
}

const (
	ChargeDebit  = "debit"
	ChargeCredit = "credit"

	OpDeposit  = "deposit"
	OpWithdraw = "withdraw"
	OpTransfer = "transfer"
)

type RegisterReq struct {
	Email          string          `json:"email"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Password       string          `json:"password"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

type RegisterResp struct {
	AccountNumber snowflake.ID `json:"account_number"`
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResp struct {
	Token   string `json:"token"`
	IsAdmin bool   `json:"is_admin"`
}

type AssignRoleReq struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AccountInfoReq struct {
	Email    string
	Password string
}

type ChargeReq struct {
	AccountNumber snowflake.ID    `json:"account_number"`
	Amount        decimal.Decimal `json:"amount"`
	// Password gates withdrawals only; deposits ignore it.
	Password string `json:"password,omitempty"`
}

type TransferReq struct {
	FromAccountNumber snowflake.ID    `json:"from_account_number"`
	ToAccountNumber   snowflake.ID    `json:"to_account_number"`
	Amount            decimal.Decimal `json:"amount"`
}

type StatementReq struct {
	AccountNumber snowflake.ID
}
