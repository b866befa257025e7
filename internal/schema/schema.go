// Package schema creates the books, readers and borrowings tables.
//
// Ensure is idempotent and runs on every start. There is no migration
// tracking: tables are only ever created, never altered.
package schema

import (
	"context"
	"fmt"

	"library-desk/internal/platform/config"
	"library-desk/internal/platform/db"
)

const (
	TableBooks      = "books"
	TableReaders    = "readers"
	TableBorrowings = "borrowings"
)

var Tables = []string{TableBooks, TableReaders, TableBorrowings}

// borrowings(book_id, returned_date) の索引は「貸出中」の検索用。
// 1冊につき未返却1件のルールは circulation 側で手続き的に守る(一意制約にはしない)。
var ddl = map[string][]string{
	config.DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS books (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			title     TEXT    NOT NULL,
			author    TEXT    NOT NULL,
			available BOOLEAN NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS readers (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			surname    TEXT NOT NULL,
			name       TEXT NOT NULL,
			patronymic TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS borrowings (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			reader_id     INTEGER  NOT NULL,
			book_id       INTEGER  NOT NULL,
			borrowed_date DATETIME NOT NULL,
			returned_date DATETIME,
			FOREIGN KEY (reader_id) REFERENCES readers(id),
			FOREIGN KEY (book_id) REFERENCES books(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_readers_surname ON readers (surname)`,
		`CREATE INDEX IF NOT EXISTS idx_borrowings_book_open ON borrowings (book_id, returned_date)`,
		`CREATE INDEX IF NOT EXISTS idx_borrowings_reader ON borrowings (reader_id)`,
	},

	// MySQL には CREATE INDEX IF NOT EXISTS が無いのでテーブル定義に含める
	config.DriverMySQL: {
		`CREATE TABLE IF NOT EXISTS books (
			id        BIGINT       NOT NULL AUTO_INCREMENT,
			title     VARCHAR(255) NOT NULL,
			author    VARCHAR(255) NOT NULL,
			available BOOLEAN      NOT NULL DEFAULT TRUE,
			PRIMARY KEY (id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS readers (
			id         BIGINT       NOT NULL AUTO_INCREMENT,
			surname    VARCHAR(255) NOT NULL,
			name       VARCHAR(255) NOT NULL,
			patronymic VARCHAR(255) NOT NULL DEFAULT '',
			PRIMARY KEY (id),
			INDEX idx_readers_surname (surname)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS borrowings (
			id            BIGINT   NOT NULL AUTO_INCREMENT,
			reader_id     BIGINT   NOT NULL,
			book_id       BIGINT   NOT NULL,
			borrowed_date DATETIME NOT NULL,
			returned_date DATETIME NULL,
			PRIMARY KEY (id),
			INDEX idx_borrowings_book_open (book_id, returned_date),
			INDEX idx_borrowings_reader (reader_id),
			CONSTRAINT fk_borrowings_reader FOREIGN KEY (reader_id) REFERENCES readers(id),
			CONSTRAINT fk_borrowings_book FOREIGN KEY (book_id) REFERENCES books(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	},

	config.DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS books (
			id        BIGSERIAL PRIMARY KEY,
			title     TEXT      NOT NULL,
			author    TEXT      NOT NULL,
			available BOOLEAN   NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS readers (
			id         BIGSERIAL PRIMARY KEY,
			surname    TEXT NOT NULL,
			name       TEXT NOT NULL,
			patronymic TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS borrowings (
			id            BIGSERIAL PRIMARY KEY,
			reader_id     BIGINT    NOT NULL REFERENCES readers(id),
			book_id       BIGINT    NOT NULL REFERENCES books(id),
			borrowed_date TIMESTAMP NOT NULL,
			returned_date TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_readers_surname ON readers (surname)`,
		`CREATE INDEX IF NOT EXISTS idx_borrowings_book_open ON borrowings (book_id, returned_date)`,
		`CREATE INDEX IF NOT EXISTS idx_borrowings_reader ON borrowings (reader_id)`,
	},
}

// Ensure creates the tables if they are absent. Any error means the store is
// unusable and the caller should stop.
func Ensure(ctx context.Context, conn *db.DB) error {
	stmts, ok := ddl[conn.Driver]
	if !ok {
		return fmt.Errorf("schema: unsupported driver %q", conn.Driver)
	}

	// DDL は MySQL で暗黙コミットされるため Tx にはまとめない
	for _, q := range stmts {
		if _, err := conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}
