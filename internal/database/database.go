package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"blogr/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

// sqliteUnicode is go-sqlite3 with lower() replaced by a Unicode case fold.
// The builtin folds ASCII only.
const sqliteUnicode = "sqlite3_unicode"

func init() {
	sql.Register(sqliteUnicode, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", unicodeLower, true)
		},
	})
}

func unicodeLower(v any) any {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		return strings.ToLower(string(s))
	}
	return v
}

//go:embed migrations
var migrations embed.FS

type DB struct {
	*sqlx.DB
}

// ConnectDB opens the database named by cfg.DB.URL, applies the migrations
// for its dialect and verifies the connection.
func ConnectDB(cfg *config.Config) (*DB, error) {
	driver, dsn, err := cfg.DB.Driver()
	if err != nil {
		return nil, err
	}

	log.Info().Str("driver", driver).Msg("connecting to database")

	db, err := open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if driver == config.DriverSQLite {
		// a single connection keeps :memory: databases alive and serializes writers
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
		db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}

	dbStruct := &DB{db}

	if err := dbStruct.RunMigrations(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbStruct.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database health check: %w", err)
	}

	log.Info().Str("driver", driver).Msg("database ready")
	return dbStruct, nil
}

// open connects with the sqlx driver name kept as driver, so bind types and
// migration dialects resolve the same for the wrapped SQLite driver.
func open(driver, dsn string) (*sqlx.DB, error) {
	if driver != config.DriverSQLite {
		return sqlx.Connect(driver, dsn)
	}

	sqlDB, err := sql.Open(sqliteUnicode, dsn)
	if err != nil {
		return nil, err
	}
	db := sqlx.NewDb(sqlDB, driver)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) CloseDB() error {
	return db.DB.Close()
}

// RunMigrations executes every embedded .sql file for the connection's
// dialect in lexical order. Statements are written to be idempotent.
func (db *DB) RunMigrations(ctx context.Context) error {
	dir := path.Join("migrations", dialectDir(db.DriverName()))

	entries, err := fs.ReadDir(migrations, dir)
	if err != nil {
		return fmt.Errorf("read migrations for %s: %w", db.DriverName(), err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && path.Ext(e.Name()) == ".sql" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		migrationSQL, err := migrations.ReadFile(path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if _, err := db.ExecContext(ctx, string(migrationSQL)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		log.Debug().Str("migration", name).Msg("migration applied")
	}

	return nil
}

func (db *DB) HealthCheck(ctx context.Context) error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	return db.PingContext(ctx)
}

func dialectDir(driver string) string {
	if driver == config.DriverPostgres {
		return "postgres"
	}
	return "sqlite"
}
