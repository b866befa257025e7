package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"library-desk/internal/platform/config"
)

// DB は接続プールと SQL ビルダ(方言)をまとめて持つ。
// 各 Service はこれを受け取り、操作ごとにプールから接続を借りて返す。
type DB struct {
	*sqlx.DB
	Driver  string
	dialect goqu.DialectWrapper
}

// Statement is anything goqu can render: select, insert and update datasets.
type Statement interface {
	ToSQL() (string, []any, error)
}

// Connect opens the pool for the configured driver and pings it.
func Connect(ctx context.Context, c config.DatabaseConfig) (*DB, error) {
	driverName, dsn, dialect, err := dataSource(c)
	if err != nil {
		return nil, err
	}

	conn, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", c.Driver, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connect %s: %w", c.Driver, err)
	}

	if c.Driver == config.DriverSQLite {
		// sqlite は単一ライタ。プールを 1 本にして SQLITE_BUSY を避ける
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(orDefault(c.MaxOpenConns, 20))
		conn.SetMaxIdleConns(orDefault(c.MaxIdleConns, 5))
		conn.SetConnMaxLifetime(30 * time.Minute)
		conn.SetConnMaxIdleTime(5 * time.Minute)
	}

	return &DB{DB: conn, Driver: c.Driver, dialect: goqu.Dialect(dialect)}, nil
}

func dataSource(c config.DatabaseConfig) (driverName, dsn, dialect string, err error) {
	switch c.Driver {
	case config.DriverSQLite:
		dsn = c.DSN
		if dsn == "" {
			dsn = sqliteDSN(c.Path)
		}
		return "sqlite", dsn, "sqlite3", nil

	case config.DriverMySQL:
		dsn = c.DSN
		if dsn == "" {
			mc := mysql.NewConfig()
			mc.User = c.Username
			mc.Passwd = c.Password
			mc.Net = "tcp"
			mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(orDefault(c.Port, 3306)))
			mc.DBName = c.DBName
			mc.ParseTime = true
			mc.Loc = time.UTC
			// 条件付き UPDATE の判定に「一致した行数」を使うため
			mc.ClientFoundRows = true
			mc.Timeout = 3 * time.Second
			mc.ReadTimeout = 5 * time.Second
			mc.WriteTimeout = 5 * time.Second
			dsn = mc.FormatDSN()
		}
		return "mysql", dsn, "mysql", nil

	case config.DriverPostgres:
		dsn = c.DSN
		if dsn == "" {
			u := url.URL{
				Scheme:   "postgres",
				User:     url.UserPassword(c.Username, c.Password),
				Host:     net.JoinHostPort(c.Host, strconv.Itoa(orDefault(c.Port, 5432))),
				Path:     "/" + c.DBName,
				RawQuery: "sslmode=disable&timezone=UTC",
			}
			dsn = u.String()
		}
		return "pgx", dsn, "postgres", nil
	}
	return "", "", "", fmt.Errorf("unknown database driver %q", c.Driver)
}

func sqliteDSN(path string) string {
	const params = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	if path == ":memory:" {
		return "file::memory:?" + params
	}
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path + "?" + params
}

func orDefault(v, d int) int {
	if v <= 0 {
		return d
	}
	return v
}

// SQLiteTimeLayout は既存の library.db と同じ日時の書式(秒まで、タイムゾーン表記なし)
const SQLiteTimeLayout = "2006-01-02 15:04:05"

// TimeValue converts t to the value bound for a DATETIME column. sqlite gets
// UTC text in SQLiteTimeLayout, the other drivers get t in UTC.
func (d *DB) TimeValue(t time.Time) any {
	t = t.UTC()
	if d.Driver == config.DriverSQLite {
		return t.Format(SQLiteTimeLayout)
	}
	return t
}

// ---- query helpers ----

func (d *DB) From(table any) *goqu.SelectDataset  { return d.dialect.From(table).Prepared(true) }
func (d *DB) Insert(table any) *goqu.InsertDataset { return d.dialect.Insert(table).Prepared(true) }
func (d *DB) Update(table any) *goqu.UpdateDataset { return d.dialect.Update(table).Prepared(true) }

// Get scans the first row of stmt into dest. sql.ErrNoRows is returned as is.
func Get(ctx context.Context, q DBTX, dest any, stmt Statement) error {
	query, args, err := stmt.ToSQL()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return q.GetContext(ctx, dest, query, args...)
}

// Select scans all rows of stmt into dest (pointer to slice).
func Select(ctx context.Context, q DBTX, dest any, stmt Statement) error {
	query, args, err := stmt.ToSQL()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return q.SelectContext(ctx, dest, query, args...)
}

// Exec runs stmt and returns the number of affected (matched on mysql) rows.
func Exec(ctx context.Context, q DBTX, stmt Statement) (int64, error) {
	query, args, err := stmt.ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// InsertID runs an insert and returns the generated id column. pgx does not
// implement LastInsertId, so postgres goes through RETURNING.
func (d *DB) InsertID(ctx context.Context, q DBTX, ds *goqu.InsertDataset) (int64, error) {
	if d.Driver == config.DriverPostgres {
		var id int64
		if err := Get(ctx, q, &id, ds.Returning("id")); err != nil {
			return 0, err
		}
		return id, nil
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Exists reports whether stmt yields at least one row.
func Exists(ctx context.Context, q DBTX, stmt *goqu.SelectDataset) (bool, error) {
	var one int
	err := Get(ctx, q, &one, stmt.Select(goqu.L("1")).Limit(1))
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
