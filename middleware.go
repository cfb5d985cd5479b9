package bankgo

import (
	"context"
	"errors"
	"io"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/semaphore"
)

type Middleware func(Service) Service

//
// Validation middleware
//

// validationMiddleware rejects malformed requests before they reach
// the service proper. Amount and same-account checks live in the
// ledger; this layer only guards request shape.
type validationMiddleware struct {
	next Service
}

var (
	_ Service = (*validationMiddleware)(nil)
)

func NewValidationMiddleware() Middleware {
	return func(svc Service) Service {
		return &validationMiddleware{next: svc}
	}
}

func (v *validationMiddleware) Register(ctx context.Context, req RegisterReq) (*RegisterResp, error) {
	if req.Email == "" {
		return nil, ErrBadRequest{Fields: map[string]string{"email": "missing"}}
	}
	return v.next.Register(ctx, req)
}

func (v *validationMiddleware) Login(ctx context.Context, req LoginReq) (*LoginResp, error) {
	if req.Email == "" || req.Password == "" {
		return nil, ErrBadRequest{Fields: map[string]string{"email/password": "missing"}}
	}
	return v.next.Login(ctx, req)
}

func (v *validationMiddleware) AssignRole(ctx context.Context, req AssignRoleReq) error {
	return v.next.AssignRole(ctx, req)
}

func (v *validationMiddleware) AccountInfo(ctx context.Context, req AccountInfoReq) (*Account, error) {
	if req.Email == "" || req.Password == "" {
		return nil, ErrBadRequest{Fields: map[string]string{"email/password": "missing"}}
	}
	return v.next.AccountInfo(ctx, req)
}

func (v *validationMiddleware) AccountByNumber(ctx context.Context, number snowflake.ID) (*Account, error) {
	return v.next.AccountByNumber(ctx, number)
}

func (v *validationMiddleware) Deposit(ctx context.Context, req ChargeReq) (*decimal.Decimal, error) {
	if req.AccountNumber == 0 {
		return nil, ErrBadRequest{Fields: map[string]string{"account_number": "missing"}}
	}
	return v.next.Deposit(ctx, req)
}

func (v *validationMiddleware) Withdraw(ctx context.Context, req ChargeReq) (*decimal.Decimal, error) {
	if req.AccountNumber == 0 {
		return nil, ErrBadRequest{Fields: map[string]string{"account_number": "missing"}}
	}
	if req.Password == "" {
		return nil, ErrBadRequest{Fields: map[string]string{"password": "missing"}}
	}
	return v.next.Withdraw(ctx, req)
}

func (v *validationMiddleware) Transfer(ctx context.Context, req TransferReq) (*decimal.Decimal, error) {
	fields := make(map[string]string)
	if req.FromAccountNumber == 0 {
		fields["from_account_number"] = "missing"
	}
	if req.ToAccountNumber == 0 {
		fields["to_account_number"] = "missing"
	}
	if len(fields) > 0 {
		return nil, ErrBadRequest{Fields: fields}
	}
	return v.next.Transfer(ctx, req)
}

func (v *validationMiddleware) Statement(ctx context.Context, w io.Writer, req StatementReq) error {
	if req.AccountNumber == 0 {
		return ErrBadRequest{Fields: map[string]string{"account_number": "missing"}}
	}
	return v.next.Statement(ctx, w, req)
}

//
// Rate limiting middlewares
//

// limitMiddleware caps in-flight movement requests with weighted
// semaphores. Limits are static per deployment; see config.
type limitMiddleware struct {
	next   Service
	limits *ServiceLimits
}

var (
	_ Service = (*limitMiddleware)(nil)
)

type ServiceLimits struct {
	Deposit  *semaphore.Weighted
	Withdraw *semaphore.Weighted
	Transfer *semaphore.Weighted
}

func NewLimitMiddleware(limits *ServiceLimits) Middleware {
	return func(next Service) Service {
		return &limitMiddleware{
			next:   next,
			limits: limits,
		}
	}
}

func (l *limitMiddleware) Register(ctx context.Context, req RegisterReq) (*RegisterResp, error) {
	return l.next.Register(ctx, req)
}

func (l *limitMiddleware) Login(ctx context.Context, req LoginReq) (*LoginResp, error) {
	return l.next.Login(ctx, req)
}

func (l *limitMiddleware) AssignRole(ctx context.Context, req AssignRoleReq) error {
	return l.next.AssignRole(ctx, req)
}

func (l *limitMiddleware) AccountInfo(ctx context.Context, req AccountInfoReq) (*Account, error) {
	return l.next.AccountInfo(ctx, req)
}

func (l *limitMiddleware) AccountByNumber(ctx context.Context, number snowflake.ID) (*Account, error) {
	return l.next.AccountByNumber(ctx, number)
}

func (l *limitMiddleware) Deposit(ctx context.Context, req ChargeReq) (*decimal.Decimal, error) {
	if err := l.limits.Deposit.Acquire(ctx, 1); err != nil {
		return nil, ErrOverloaded
	}
	defer l.limits.Deposit.Release(1)
	return l.next.Deposit(ctx, req)
}

func (l *limitMiddleware) Withdraw(ctx context.Context, req ChargeReq) (*decimal.Decimal, error) {
	if err := l.limits.Withdraw.Acquire(ctx, 1); err != nil {
		return nil, ErrOverloaded
	}
	defer l.limits.Withdraw.Release(1)
	return l.next.Withdraw(ctx, req)
}

func (l *limitMiddleware) Transfer(ctx context.Context, req TransferReq) (*decimal.Decimal, error) {
	if err := l.limits.Transfer.Acquire(ctx, 1); err != nil {
		return nil, ErrOverloaded
	}
	defer l.limits.Transfer.Release(1)
	return l.next.Transfer(ctx, req)
}

func (l *limitMiddleware) Statement(ctx context.Context, w io.Writer, req StatementReq) error {
	return l.next.Statement(ctx, w, req)
}

type ServiceBreaker struct {
	Deposit  *gobreaker.TwoStepCircuitBreaker[*decimal.Decimal]
	Withdraw *gobreaker.TwoStepCircuitBreaker[*decimal.Decimal]
	Transfer *gobreaker.TwoStepCircuitBreaker[*decimal.Decimal]
}

func NewServiceBreaker(st gobreaker.Settings) *ServiceBreaker {
	return &ServiceBreaker{
		Deposit:  gobreaker.NewTwoStepCircuitBreaker[*decimal.Decimal](st),
		Withdraw: gobreaker.NewTwoStepCircuitBreaker[*decimal.Decimal](st),
		Transfer: gobreaker.NewTwoStepCircuitBreaker[*decimal.Decimal](st),
	}
}

// circuitBreakMiddleware sheds movement requests while the store is
// struggling. Business rejections (insufficient funds, not found) do
// not count against the breaker; only service faults do.
type circuitBreakMiddleware struct {
	next  Service
	brkrs *ServiceBreaker
}

var (
	_ Service = (*circuitBreakMiddleware)(nil)
)

func NewCircuitBreakMiddleware(brkrs *ServiceBreaker) Middleware {
	return func(next Service) Service {
		return &circuitBreakMiddleware{
			next:  next,
			brkrs: brkrs,
		}
	}
}

func isServiceFault(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrInternalServer)
}

func (c *circuitBreakMiddleware) Register(ctx context.Context, req RegisterReq) (*RegisterResp, error) {
	return c.next.Register(ctx, req)
}

func (c *circuitBreakMiddleware) Login(ctx context.Context, req LoginReq) (*LoginResp, error) {
	return c.next.Login(ctx, req)
}

func (c *circuitBreakMiddleware) AssignRole(ctx context.Context, req AssignRoleReq) error {
	return c.next.AssignRole(ctx, req)
}

func (c *circuitBreakMiddleware) AccountInfo(ctx context.Context, req AccountInfoReq) (*Account, error) {
	return c.next.AccountInfo(ctx, req)
}

func (c *circuitBreakMiddleware) AccountByNumber(ctx context.Context, number snowflake.ID) (*Account, error) {
	return c.next.AccountByNumber(ctx, number)
}

func (c *circuitBreakMiddleware) Deposit(ctx context.Context, req ChargeReq) (*decimal.Decimal, error) {
	done, err := c.brkrs.Deposit.Allow()
	if err != nil {
		return nil, ErrOverloaded
	}
	bal, err := c.next.Deposit(ctx, req)
	done(err == nil || !isServiceFault(err))
	return bal, err
}

func (c *circuitBreakMiddleware) Withdraw(ctx context.Context, req ChargeReq) (*decimal.Decimal, error) {
	done, err := c.brkrs.Withdraw.Allow()
	if err != nil {
		return nil, ErrOverloaded
	}
	bal, err := c.next.Withdraw(ctx, req)
	done(err == nil || !isServiceFault(err))
	return bal, err
}

func (c *circuitBreakMiddleware) Transfer(ctx context.Context, req TransferReq) (*decimal.Decimal, error) {
	done, err := c.brkrs.Transfer.Allow()
	if err != nil {
		return nil, ErrOverloaded
	}
	bal, err := c.next.Transfer(ctx, req)
	done(err == nil || !isServiceFault(err))
	return bal, err
}

func (c *circuitBreakMiddleware) Statement(ctx context.Context, w io.Writer, req StatementReq) error {
	return c.next.Statement(ctx, w, req)
}
