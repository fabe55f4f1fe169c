package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// MemoryDB nombre de archivo para una base en memoria (tests).
const MemoryDB = ":memory:"

// timeLayout formato fijo de data_hora (UTC): se ordena bien como texto.
const timeLayout = "2006-01-02 15:04:05.000000"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Querier lo que comparten *sql.DB y *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open abre la base SQLite con claves foráneas activas. Una sola conexión: SQLite serializa
// escritores y así una base en memoria es la misma para todas las consultas.
func Open(ctx context.Context, filename string) (*sql.DB, error) {
	var dsn string
	if filename == MemoryDB {
		dsn = "file::memory:?_pragma=foreign_keys(1)"
	} else {
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", filename)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// Migrate aplica los scripts de migrations/ en orden (idempotentes).
func Migrate(ctx context.Context, db *sql.DB) error {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(files)
	for _, f := range files {
		script, err := migrationsFS.ReadFile(f)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, string(script)); err != nil {
			return fmt.Errorf("migración %s: %w", f, err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return hasCode(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE, "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return hasCode(err, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, "FOREIGN KEY constraint failed")
}

func hasCode(err error, code int, text string) bool {
	if err == nil {
		return false
	}
	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) && sqlErr.Code() == code {
		return true
	}
	return strings.Contains(err.Error(), text)
}

// folder compara subcadenas sin distinguir mayúsculas en todo Unicode (ç/Ç, ã/Ã).
// LIKE de SQLite sólo pliega ASCII. Un Caser no se comparte entre goroutines: uno por búsqueda.
type folder struct {
	caser  cases.Caser
	needle string
}

func newFolder(search string) *folder {
	f := &folder{caser: cases.Fold()}
	f.needle = f.caser.String(search)
	return f
}

// matches indica si alguno de los textos contiene la búsqueda, literal (sin comodines).
func (f *folder) matches(texts ...string) bool {
	for _, t := range texts {
		if strings.Contains(f.caser.String(t), f.needle) {
			return true
		}
	}
	return false
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.ParseInLocation(timeLayout, s, time.UTC)
}
