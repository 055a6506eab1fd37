package database

import (
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

// Options tunes the gorm session opened by Connect.
type Options struct {
	Debug bool
	Log   *zap.Logger
}

func Connect(dsn string, opts Options) (*gorm.DB, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	cfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
	if opts.Debug {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	if IsPostgres(dsn) {
		log.Info("connecting to postgres")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.Info("using sqlite for local development", zap.String("dsn", dsn))

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        withSQLitePragmas(dsn),
		}),
		cfg,
	)
}

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// sqliteParams are appended to a sqlite DSN unless the caller set the same key.
// _txlock=immediate makes BEGIN take the write lock up front, so concurrent
// writers queue on busy_timeout instead of failing with SQLITE_BUSY when a
// read lock cannot be upgraded.
var sqliteParams = []struct{ key, value string }{
	{"_pragma=foreign_keys", "_pragma=foreign_keys(1)"},
	{"_pragma=busy_timeout", "_pragma=busy_timeout(5000)"},
	{"_pragma=journal_mode", "_pragma=journal_mode(WAL)"},
	{"_txlock=", "_txlock=immediate"},
}

func withSQLitePragmas(dsn string) string {
	for _, p := range sqliteParams {
		if strings.Contains(dsn, p.key) {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + p.value
	}
	return dsn
}
