package mysql

import (
	"context"
	"fmt"
	"time"

	"ddd-kernel/config"
	"ddd-kernel/infrastructure/persistence/mysql/po"
	"ddd-kernel/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const (
	DefaultMaxOpenConns    = 25
	DefaultMaxIdleConns    = 10
	DefaultConnMaxLifetime = 10 * time.Minute
	DefaultConnMaxIdleTime = 5 * time.Minute
)

// Config MySQL 连接配置
type Config struct {
	Host            string
	Port            string
	Username        string
	Password        string
	Database        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	LogLevel        string
}

// ConfigFrom 从应用配置提取数据库连接配置
func ConfigFrom(cfg *config.Config) *Config {
	db := cfg.Database
	return &Config{
		Host:            db.Host,
		Port:            db.Port,
		Username:        db.Username,
		Password:        db.Password,
		Database:        db.Database,
		LogLevel:        db.LogLevel,
		MaxOpenConns:    db.MaxOpenConns,
		MaxIdleConns:    db.MaxIdleConns,
		ConnMaxLifetime: db.ConnMaxLifetime,
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=Local&charset=utf8mb4&collation=utf8mb4_unicode_ci&readTimeout=10s&writeTimeout=10s",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

func (c *Config) applyDefaults() {
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = DefaultMaxOpenConns
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = DefaultMaxIdleConns
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		c.MaxIdleConns = c.MaxOpenConns
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = DefaultConnMaxLifetime
	}
	if c.ConnMaxIdleTime <= 0 {
		c.ConnMaxIdleTime = DefaultConnMaxIdleTime
	}
}

// Connect 打开连接池，日志接入 zap
func (c *Config) Connect() (*gorm.DB, error) {
	c.applyDefaults()
	gormConfig := &gorm.Config{
		Logger: logger.NewGormLoggerAdapter(logger.ParseGormLevel(c.LogLevel)),
	}

	db, err := gorm.Open(mysql.Open(c.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(c.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(c.ConnMaxIdleTime)

	logger.Info("Database connected",
		zap.String("host", c.Host),
		zap.String("database", c.Database),
		zap.Int("max_open_conns", c.MaxOpenConns),
		zap.Int("max_idle_conns", c.MaxIdleConns),
	)

	return db, nil
}

// Ping 检查连接可用
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Migrate 创建 outbox 表
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&po.OutboxEventPO{})
}
