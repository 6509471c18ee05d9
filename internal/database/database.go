package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emilythestrangee/blogicum/backend/internal/config"
	"github.com/emilythestrangee/blogicum/backend/internal/models"
)

// Service represents a service that interacts with a database.
type Service interface {
	Health(ctx context.Context) map[string]string
	Close() error
	GetDB() *gorm.DB

	// Migrate creates or updates the tables of every model.
	Migrate() error
}

const healthTimeout = 5 * time.Second

type service struct {
	db  *gorm.DB
	log *logrus.Logger
}

// New connects to Postgres through the pgx stdlib driver, migrates the schema
// and configures the connection pool.
func New(cfg config.Database, lg *logrus.Logger) (Service, error) {
	sqlDB, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	s, err := Open(sqlDB, lg)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	lg.WithField("database", cfg.Name).Info("database connected")

	if err := s.Migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}

	lg.Info("database migrations completed")

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return s, nil
}

// Open wraps an existing connection pool in gorm without migrating.
func Open(conn gorm.ConnPool, lg *logrus.Logger) (Service, error) {
	gormLogger := logger.New(
		log.New(lg.WriterLevel(logrus.DebugLevel), "", 0),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogLevel(lg.GetLevel()),
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	return &service{db: db, log: lg}, nil
}

func gormLogLevel(l logrus.Level) logger.LogLevel {
	switch {
	case l >= logrus.DebugLevel:
		return logger.Info
	case l >= logrus.WarnLevel:
		return logger.Warn
	default:
		return logger.Error
	}
}

func (s *service) Migrate() error {
	err := s.db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Location{},
		&models.Post{},
		&models.Comment{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (s *service) GetDB() *gorm.DB {
	return s.db
}

// Health pings the database and reports pool statistics. A "status" of
// "up" means the ping succeeded.
func (s *service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	sqlDB, err := s.db.DB()
	if err != nil {
		return map[string]string{"status": "down", "error": fmt.Sprintf("db error: %v", err)}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		s.log.WithError(err).Warn("database ping failed")
		return map[string]string{"status": "down", "error": fmt.Sprintf("db down: %v", err)}
	}

	st := sqlDB.Stats()
	return map[string]string{
		"status":           "up",
		"open_connections": strconv.Itoa(st.OpenConnections),
		"in_use":           strconv.Itoa(st.InUse),
		"idle":             strconv.Itoa(st.Idle),
		"wait_count":       strconv.FormatInt(st.WaitCount, 10),
	}
}

// Close closes the database connection.
func (s *service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	s.log.Info("disconnected from database")
	return sqlDB.Close()
}
