package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/rpupo63/tagblog/config"
)

// Supported values of DB_TYPE.
const (
	TypePostgres = "postgres"
	TypeSupabase = "supa"
	TypeMySQL    = "mysql"
	TypeSQLite   = "sqlite"
)

// DSN builds the primary connection string for the configured DB_TYPE.
// DATABASE_DSN, when set, is used verbatim.
func DSN(c map[string]string) (string, string, error) {
	dbType := strings.ToLower(config.GetString(c, "DB_TYPE", TypeSQLite))
	if dsn := config.GetString(c, "DATABASE_DSN", ""); dsn != "" {
		return dbType, dsn, nil
	}

	switch dbType {
	case TypePostgres:
		return dbType, fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			config.GetString(c, "DB_HOST", "localhost"),
			config.GetString(c, "DB_USER", "tagblog"),
			config.GetString(c, "DB_PASSWORD", ""),
			config.GetString(c, "DB_NAME", "tagblog"),
			config.GetString(c, "DB_PORT", "5432"),
			config.GetString(c, "DB_SSLMODE", "disable"),
		), nil
	case TypeSupabase:
		return dbType, fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(c, "SUPABASE_DB_HOST", ""),
			config.GetString(c, "SUPABASE_DB_USER", ""),
			config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(c, "SUPABASE_DB_NAME", ""),
			config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		), nil
	case TypeMySQL:
		return dbType, fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			config.GetString(c, "DB_USER", "tagblog"),
			config.GetString(c, "DB_PASSWORD", ""),
			config.GetString(c, "DB_HOST", "localhost"),
			config.GetString(c, "DB_PORT", "3306"),
			config.GetString(c, "DB_NAME", "tagblog"),
		), nil
	case TypeSQLite:
		return dbType, config.GetString(c, "DB_NAME", "tagblog.db"), nil
	default:
		return dbType, "", fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}
}

func dialector(dbType, dsn string) (gorm.Dialector, error) {
	switch dbType {
	case TypePostgres, TypeSupabase:
		return postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), nil
	case TypeMySQL:
		return mysql.Open(dsn), nil
	case TypeSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}
}

// Open connects to the configured database, registers read replicas from
// DB_REPLICA_DSNS and installs the tracing plugin.
func Open(c map[string]string) (*gorm.DB, error) {
	dbType, dsn, err := DSN(c)
	if err != nil {
		return nil, err
	}
	primary, err := dialector(dbType, dsn)
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             config.GetSeconds(c, "DB_SLOW_THRESHOLD_SECONDS", 10),
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(primary, &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
		Logger:         newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to %s database: %w", dbType, err)
	}

	if replicas := config.GetList(c, "DB_REPLICA_DSNS"); len(replicas) > 0 {
		dialectors := make([]gorm.Dialector, 0, len(replicas))
		for _, replicaDSN := range replicas {
			d, err := dialector(dbType, replicaDSN)
			if err != nil {
				return nil, err
			}
			dialectors = append(dialectors, d)
		}
		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: dialectors,
			Policy:   dbresolver.RandomPolicy{},
		}).
			SetConnMaxIdleTime(time.Hour).
			SetMaxOpenConns(config.GetPositiveInt(c, "DB_REPLICA_MAX_OPEN_CONNS", 10))
		if err := db.Use(resolver); err != nil {
			return nil, fmt.Errorf("registering read replicas: %w", err)
		}
	}

	if err := db.Use(otelgorm.NewPlugin(otelgorm.WithDBName(dbType))); err != nil {
		return nil, fmt.Errorf("installing tracing plugin: %w", err)
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("testing database connection: %w", err)
	}

	return db, nil
}
