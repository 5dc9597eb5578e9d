package database

import (
	"fmt"
	"time"

	"fleetops/config"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Settings describes one database connection. FromConfig fills it from the
// loaded environment.
type Settings struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

func FromConfig() Settings {
	return Settings{
		Driver:   config.DBDriver,
		Host:     config.DBHost,
		Port:     config.DBPort,
		User:     config.DBUser,
		Password: config.DBPassword,
		Name:     config.DBName,
	}
}

// Dialector picks the GORM driver for s.Driver.
func Dialector(s Settings) (gorm.Dialector, error) {
	switch s.Driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			s.Host, s.User, s.Password, s.Name, s.Port)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			s.User, s.Password, s.Host, s.Port, s.Name)
		return mysql.Open(dsn), nil
	case "mssql":
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			s.User, s.Password, s.Host, s.Port, s.Name)
		return sqlserver.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(s.Name), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", s.Driver)
	}
}

// Open connects and verifies the connection. Timestamps are written in UTC.
func Open(s Settings, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(s)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database %q: %w", s.Driver, s.Name, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql handle: %w", err)
	}
	if s.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping %s database %q: %w", s.Driver, s.Name, err)
	}

	log.Info("Connected to database", zap.String("driver", s.Driver), zap.String("name", s.Name))
	return db, nil
}
