package bankgo

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	pgSelectBalanceForUpdateSQL = `
		SELECT balance
		FROM accounts
		WHERE number = $1
		FOR UPDATE;
	`

	pgUpdateBalanceSQL = `
		UPDATE accounts
		SET balance = $1
		WHERE number = $2;
	`

	pgInsertChargeSQL = `
		INSERT INTO charges (account_number, kind, op, amount)
		VALUES ($1, $2, $3, $4);
	`
)

// PgErrCode* are the SQLSTATEs treated as transient contention.
const (
	pgErrSerializationFailure = "40001"
	pgErrDeadlockDetected     = "40P01"
	pgErrUniqueViolation      = "23505"
)

type PostgresEndpoint struct {
	pool *pgxpool.Pool
	log  *zerolog.Logger
}

var (
	_ Repository = (*PostgresEndpoint)(nil)
)

func NewPostgresEndpoint(connStr string, log *zerolog.Logger) (*PostgresEndpoint, error) {
	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	if err = pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	endpt := &PostgresEndpoint{
		pool: pool,
		log:  log,
	}
	return endpt, err
}

func (pg *PostgresEndpoint) Close() {
	pg.pool.Close()
}

// rowQuerier is satisfied by both the pool and a transaction so the
// insert helpers can run in either.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (pg *PostgresEndpoint) CreateUser(ctx context.Context, user *User) error {
	if err := insertUser(ctx, pg.pool, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return err
		}
		return storeFault(err)
	}
	return nil
}

// CreateUserWithAccount runs both inserts in one transaction; a failed
// account insert rolls the user back so no orphaned user row survives.
func (pg *PostgresEndpoint) CreateUserWithAccount(ctx context.Context, user *User, acct *Account) error {
	return pg.inTx(ctx, func(tx pgx.Tx) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}
		return insertAccount(ctx, tx, acct)
	})
}

func insertUser(ctx context.Context, q rowQuerier, user *User) error {
	sql := `
	INSERT INTO users (id, email, first_name, last_name, password_hash, roles)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at;
	`

	roles := user.Roles
	if roles == nil {
		roles = []string{}
	}
	row := q.QueryRow(ctx, sql,
		user.ID, user.Email, user.FirstName, user.LastName, user.PasswordHash, roles)
	if err := row.Scan(&user.CreatedAt); err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == pgErrUniqueViolation {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (pg *PostgresEndpoint) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	sql := `
	SELECT id, email, first_name, last_name, password_hash, roles, created_at
	FROM users
	WHERE email = $1;
	`

	return pg.scanUser(pg.pool.QueryRow(ctx, sql, email))
}

func (pg *PostgresEndpoint) GetUserByAccountNumber(ctx context.Context, number snowflake.ID) (*User, error) {
	sql := `
	SELECT u.id, u.email, u.first_name, u.last_name, u.password_hash, u.roles, u.created_at
	FROM users u
	JOIN accounts a ON a.user_id = u.id
	WHERE a.number = $1;
	`

	usr, err := pg.scanUser(pg.pool.QueryRow(ctx, sql, number.Int64()))
	if err != nil {
		var nf ErrNotFound
		if errors.As(err, &nf) {
			return nil, ErrNotFound{Number: number.String()}
		}
		return nil, err
	}
	return usr, nil
}

func (pg *PostgresEndpoint) scanUser(row pgx.Row) (*User, error) {
	var usr User
	err := row.Scan(
		&usr.ID,
		&usr.Email,
		&usr.FirstName,
		&usr.LastName,
		&usr.PasswordHash,
		&usr.Roles,
		&usr.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound{}
		}
		return nil, storeFault(err)
	}
	return &usr, nil
}

func (pg *PostgresEndpoint) AddUserRole(ctx context.Context, email, role string) error {
	sql := `
	UPDATE users
	SET roles = array_append(roles, $1)
	WHERE email = $2
	AND NOT ($1 = ANY (roles));
	`

	tag, err := pg.pool.Exec(ctx, sql, role, email)
	if err != nil {
		return storeFault(err)
	}
	if tag.RowsAffected() == 0 {
		// Zero rows means either no such user or the guard saw the
		// role already present (e.g. a concurrent grant won).
		var held bool
		row := pg.pool.QueryRow(ctx, `SELECT $1 = ANY (roles) FROM users WHERE email = $2;`, role, email)
		if err = row.Scan(&held); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound{}
			}
			return storeFault(err)
		}
		if held {
			return ErrBadRequest{Fields: map[string]string{"role": "already assigned"}}
		}
		return ErrNotFound{}
	}
	return nil
}

func (pg *PostgresEndpoint) CreateAccount(ctx context.Context, acct *Account) error {
	if err := insertAccount(ctx, pg.pool, acct); err != nil {
		return storeFault(err)
	}
	return nil
}

func insertAccount(ctx context.Context, q rowQuerier, acct *Account) error {
	sql := `
	INSERT INTO accounts (number, user_id, balance)
	VALUES ($1, $2, $3)
	RETURNING created_at;
	`

	row := q.QueryRow(ctx, sql, acct.Number.Int64(), acct.UserID, acct.Balance)
	return row.Scan(&acct.CreatedAt)
}

func (pg *PostgresEndpoint) GetAccountByNumber(ctx context.Context, number snowflake.ID) (*Account, error) {
	sql := `
	SELECT user_id, balance, created_at
	FROM accounts
	WHERE number = $1;
	`

	acct := Account{Number: number}
	row := pg.pool.QueryRow(ctx, sql, number.Int64())
	if err := row.Scan(&acct.UserID, &acct.Balance, &acct.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound{Number: number.String()}
		}
		return nil, storeFault(err)
	}
	return &acct, nil
}

func (pg *PostgresEndpoint) GetAccountByUserID(ctx context.Context, userID uuid.UUID) (*Account, error) {
	sql := `
	SELECT number, user_id, balance, created_at
	FROM accounts
	WHERE user_id = $1;
	`

	var (
		acct Account
		num  int64
	)
	row := pg.pool.QueryRow(ctx, sql, userID)
	if err := row.Scan(&num, &acct.UserID, &acct.Balance, &acct.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound{}
		}
		return nil, storeFault(err)
	}
	acct.Number = snowflake.ParseInt64(num)
	return &acct, nil
}

func (pg *PostgresEndpoint) GetAccountCharges(ctx context.Context, number snowflake.ID) ([]Charge, error) {
	sql := `
	SELECT id, kind, op, amount, created_at
	FROM charges
	WHERE account_number = $1
	ORDER BY id;
	`

	rows, err := pg.pool.Query(ctx, sql, number.Int64())
	if err != nil {
		return nil, storeFault(err)
	}
	defer rows.Close()

	var charges []Charge
	for rows.Next() {
		chg := Charge{AccountNumber: number}
		if err = rows.Scan(&chg.ID, &chg.Kind, &chg.Op, &chg.Amount, &chg.CreatedAt); err != nil {
			return nil, storeFault(err)
		}
		charges = append(charges, chg)
	}
	if err = rows.Err(); err != nil {
		return nil, storeFault(err)
	}
	return charges, nil
}

func (pg *PostgresEndpoint) CreditBalance(ctx context.Context, number snowflake.ID, amount decimal.Decimal) (*decimal.Decimal, error) {
	var newBal decimal.Decimal
	err := pg.inTx(ctx, func(tx pgx.Tx) error {
		bal, err := lockBalance(ctx, tx, number)
		if err != nil {
			return err
		}
		newBal = bal.Add(amount)
		if _, err = tx.Exec(ctx, pgUpdateBalanceSQL, newBal, number.Int64()); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, pgInsertChargeSQL, number.Int64(), ChargeCredit, OpDeposit, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &newBal, nil
}

func (pg *PostgresEndpoint) DebitBalance(ctx context.Context, number snowflake.ID, amount decimal.Decimal) (*decimal.Decimal, error) {
	var newBal decimal.Decimal
	err := pg.inTx(ctx, func(tx pgx.Tx) error {
		bal, err := lockBalance(ctx, tx, number)
		if err != nil {
			return err
		}
		if bal.LessThan(amount) {
			return ErrInsufficientFunds
		}
		newBal = bal.Sub(amount)
		if _, err = tx.Exec(ctx, pgUpdateBalanceSQL, newBal, number.Int64()); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, pgInsertChargeSQL, number.Int64(), ChargeDebit, OpWithdraw, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &newBal, nil
}

// TransferBalances locks both rows in ascending account-number order so
// two opposite-direction transfers over the same pair cannot deadlock,
// then moves amount from -> to under those locks.
func (pg *PostgresEndpoint) TransferBalances(ctx context.Context, from, to snowflake.ID, amount decimal.Decimal) (*decimal.Decimal, error) {
	var newBal decimal.Decimal
	err := pg.inTx(ctx, func(tx pgx.Tx) error {
		first, second := from, to
		if second.Int64() < first.Int64() {
			first, second = second, first
		}
		balances := make(map[snowflake.ID]decimal.Decimal, 2)
		for _, num := range []snowflake.ID{first, second} {
			bal, err := lockBalance(ctx, tx, num)
			if err != nil {
				return err
			}
			balances[num] = bal
		}
		if balances[from].LessThan(amount) {
			return ErrInsufficientFunds
		}
		newBal = balances[from].Sub(amount)
		if _, err := tx.Exec(ctx, pgUpdateBalanceSQL, newBal, from.Int64()); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, pgUpdateBalanceSQL, balances[to].Add(amount), to.Int64()); err != nil {
			return err
		}
		batch := &pgx.Batch{}
		batch.Queue(pgInsertChargeSQL, from.Int64(), ChargeDebit, OpTransfer, amount)
		batch.Queue(pgInsertChargeSQL, to.Int64(), ChargeCredit, OpTransfer, amount)
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return nil, err
	}
	return &newBal, nil
}

// inTx runs fn inside one transaction: commit on nil, rollback
// otherwise. Contention aborts come back as ErrConflict so the ledger
// can retry from scratch.
func (pg *PostgresEndpoint) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	conn, err := pg.pool.Acquire(ctx)
	if err != nil {
		return storeFault(err)
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return storeFault(err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			pg.log.Err(rbErr).Msg("transaction rollback fail")
		}
		return mapTxError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return mapTxError(err)
	}
	return nil
}

func lockBalance(ctx context.Context, tx pgx.Tx, number snowflake.ID) (decimal.Decimal, error) {
	var bal decimal.Decimal
	row := tx.QueryRow(ctx, pgSelectBalanceForUpdateSQL, number.Int64())
	if err := row.Scan(&bal); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return bal, ErrNotFound{Number: number.String()}
		}
		return bal, err
	}
	return bal, nil
}

func mapTxError(err error) error {
	var nf ErrNotFound
	if errors.As(err, &nf) || errors.Is(err, ErrInsufficientFunds) || errors.Is(err, ErrDuplicateEmail) {
		return err
	}
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		switch pgerr.Code {
		case pgErrSerializationFailure, pgErrDeadlockDetected:
			return ErrConflict
		}
	}
	return storeFault(err)
}

func storeFault(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
