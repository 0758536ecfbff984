// Package database opens the MySQL connection pool and manages the schema.
package database

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/teamflow/teamflow-api/internal/config"
	"github.com/teamflow/teamflow-api/internal/models"
)

// BuildDSN returns a MySQL DSN from DATABASE_DSN when set, otherwise from the
// discrete DB_* settings. Either way the connection flags the repositories
// rely on are forced on.
func BuildDSN(cfg *config.Config) (string, error) {
	dsn := mysqldriver.NewConfig()
	defaultCharset := true
	if cfg.DatabaseDSN != "" {
		parsed, err := mysqldriver.ParseDSN(cfg.DatabaseDSN)
		if err != nil {
			return "", fmt.Errorf("invalid DATABASE_DSN: %w", err)
		}
		dsn = parsed
		// The driver keeps charset outside Params, so look at the raw DSN.
		defaultCharset = !strings.Contains(cfg.DatabaseDSN, "charset=")
	} else {
		dsn.User = cfg.DBUser
		dsn.Passwd = cfg.DBPassword
		dsn.Net = "tcp"
		dsn.Addr = net.JoinHostPort(cfg.DBHost, cfg.DBPort)
		dsn.DBName = cfg.DBName
		dsn.Loc = time.UTC
	}

	dsn.ParseTime = true
	// UPDATE reports matched rather than changed rows, so a no-op update of an
	// existing row is not mistaken for a missing one.
	dsn.ClientFoundRows = true
	if defaultCharset {
		if dsn.Params == nil {
			dsn.Params = map[string]string{}
		}
		dsn.Params["charset"] = "utf8mb4"
	}
	return dsn.FormatDSN(), nil
}

// Connect opens the pool, applies the pool limits and pings the server.
func Connect(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	dsn, err := BuildDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(log, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.WithFields(logrus.Fields{
		"max_open_conns": cfg.DBMaxOpenConns,
		"max_idle_conns": cfg.DBMaxIdleConns,
		"queue_limit":    cfg.DBQueueLimit,
	}).Info("Database connection established")

	return db, nil
}

// Migrate creates or updates every table the API uses.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamMember{},
		&models.Task{},
		&models.Activity{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
