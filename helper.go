package bankgo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// LocalHelper bootstraps a local database for development and
// integration tests: schema from testdata/init_db.sql, plus an admin
// user to exercise the role-gated endpoints.
type LocalHelper struct {
	Conn *pgx.Conn
	Node *snowflake.Node
}

func NewLocalHelper(cfg *Config) (*LocalHelper, error) {
	conn, err := pgx.Connect(context.Background(), cfg.Database.ConnectionString)
	if err != nil {
		return nil, err
	}
	node, err := snowflake.NewNode(cfg.Snowflake.Node)
	if err != nil {
		return nil, err
	}
	return &LocalHelper{
		Conn: conn,
		Node: node,
	}, nil
}

func (lh *LocalHelper) Close() {
	lh.Conn.Close(context.Background())
}

func (lh *LocalHelper) InitDB() (func(), error) {
	initSQLpath := filepath.Join("testdata", "init_db.sql")
	bits, err := os.ReadFile(initSQLpath)
	if err != nil {
		return nil, err
	}
	if _, err = lh.Conn.Exec(context.Background(), string(bits)); err != nil {
		return nil, err
	}
	return lh.teardownDB(), err
}

// SeedAdmin creates an admin user with an empty account and returns
// its account number.
func (lh *LocalHelper) SeedAdmin(email, password string) (snowflake.ID, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	userID := uuid.New()
	sql := `
	INSERT INTO users (id, email, first_name, last_name, password_hash, roles)
	VALUES ($1, $2, 'Admin', 'Admin', $3, $4);
	`
	if _, err = lh.Conn.Exec(context.Background(), sql, userID, email, string(hash), []string{RoleAdmin}); err != nil {
		return 0, err
	}
	num := lh.Node.Generate()
	sql = `
	INSERT INTO accounts (number, user_id, balance)
	VALUES ($1, $2, $3);
	`
	if _, err = lh.Conn.Exec(context.Background(), sql, num.Int64(), userID, decimal.Zero); err != nil {
		return 0, err
	}
	return num, nil
}

func (lh *LocalHelper) teardownDB() func() {
	return func() {
		defer lh.Conn.Close(context.Background())

		tearSQLpath := filepath.Join("testdata", "teardown_db.sql")
		bits, err := os.ReadFile(tearSQLpath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "DB cleanup read teardown sql: %s", err.Error())
			return
		}
		if _, err = lh.Conn.Exec(context.Background(), string(bits)); err != nil {
			fmt.Fprintf(os.Stderr, "DB cleanup exec teardown sql: %s", err.Error())
			return
		}
	}
}
