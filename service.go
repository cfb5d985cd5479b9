package bankgo

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, req RegisterReq) (*RegisterResp, error)
	Login(ctx context.Context, req LoginReq) (*LoginResp, error)
	AssignRole(ctx context.Context, req AssignRoleReq) error
	AccountInfo(ctx context.Context, req AccountInfoReq) (*Account, error)
	AccountByNumber(ctx context.Context, number snowflake.ID) (*Account, error)
	Deposit(ctx context.Context, req ChargeReq) (*decimal.Decimal, error)
	Withdraw(ctx context.Context, req ChargeReq) (*decimal.Decimal, error)
	Transfer(ctx context.Context, req TransferReq) (*decimal.Decimal, error)
	Statement(ctx context.Context, w io.Writer, req StatementReq) error
}

func NewService(repo Repository, node *snowflake.Node, tokens *TokenIssuer, log *zerolog.Logger) *serviceImpl {
	return &serviceImpl{
		repo:   repo,
		ledger: NewLedger(repo, log),
		node:   node,
		tokens: tokens,
		log:    log,
	}
}

type serviceImpl struct {
	repo   Repository
	ledger *Ledger
	node   *snowflake.Node
	tokens *TokenIssuer
	log    *zerolog.Logger
}

var (
	_ Service = (*serviceImpl)(nil)
)

// Register creates the user and their single account. A negative
// initial balance is a hard input error, not clamped.
func (s *serviceImpl) Register(ctx context.Context, req RegisterReq) (*RegisterResp, error) {
	fields := make(map[string]string)
	if !strings.Contains(req.Email, "@") {
		fields["email"] = "missing or invalid"
	}
	if len(req.Password) < 8 {
		fields["password"] = "must be at least 8 characters"
	}
	if req.InitialBalance.IsNegative() {
		fields["initial_balance"] = "must not be negative"
	}
	if len(fields) > 0 {
		return nil, ErrBadRequest{Fields: fields}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrInternalServer
	}
	user := &User{
		ID:           uuid.New(),
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
	}
	acct := &Account{
		Number:  s.node.Generate(),
		UserID:  user.ID,
		Balance: req.InitialBalance,
	}
	if err = s.repo.CreateUserWithAccount(ctx, user, acct); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("email", user.Email).
		Str("account", acct.Number.String()).
		Msg("user registered")
	return &RegisterResp{AccountNumber: acct.Number}, nil
}

func (s *serviceImpl) Login(ctx context.Context, req LoginReq) (*LoginResp, error) {
	user, err := s.userByEmail(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, ErrInternalServer
	}
	return &LoginResp{
		Token:   token,
		IsAdmin: user.HasRole(RoleAdmin),
	}, nil
}

func (s *serviceImpl) AssignRole(ctx context.Context, req AssignRoleReq) error {
	if req.Email == "" || req.Role == "" {
		return ErrBadRequest{Fields: map[string]string{"email/role": "missing"}}
	}
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if user.HasRole(req.Role) {
		return ErrBadRequest{Fields: map[string]string{"role": "already assigned"}}
	}
	return s.repo.AddUserRole(ctx, req.Email, req.Role)
}

func (s *serviceImpl) AccountInfo(ctx context.Context, req AccountInfoReq) (*Account, error) {
	user, err := s.userByEmail(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return s.repo.GetAccountByUserID(ctx, user.ID)
}

func (s *serviceImpl) AccountByNumber(ctx context.Context, number snowflake.ID) (*Account, error) {
	return s.repo.GetAccountByNumber(ctx, number)
}

func (s *serviceImpl) Deposit(ctx context.Context, req ChargeReq) (*decimal.Decimal, error) {
	return s.ledger.Deposit(ctx, req.AccountNumber, req.Amount)
}

// Withdraw checks the owning user's password before the ledger runs;
// the ledger itself never sees credentials.
func (s *serviceImpl) Withdraw(ctx context.Context, req ChargeReq) (*decimal.Decimal, error) {
	user, err := s.repo.GetUserByAccountNumber(ctx, req.AccountNumber)
	if err != nil {
		return nil, err
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.ledger.Withdraw(ctx, req.AccountNumber, req.Amount)
}

func (s *serviceImpl) Transfer(ctx context.Context, req TransferReq) (*decimal.Decimal, error) {
	return s.ledger.Transfer(ctx, req.FromAccountNumber, req.ToAccountNumber, req.Amount)
}

func (s *serviceImpl) Statement(ctx context.Context, w io.Writer, req StatementReq) error {
	acct, err := s.repo.GetAccountByNumber(ctx, req.AccountNumber)
	if err != nil {
		return err
	}
	charges, err := s.repo.GetAccountCharges(ctx, req.AccountNumber)
	if err != nil {
		return err
	}
	return writeStatementPDF(w, acct, charges)
}

func (s *serviceImpl) userByEmail(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		var nf ErrNotFound
		if errors.As(err, &nf) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
