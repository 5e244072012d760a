// Package retry 为工作单元事务提供指数退避重试
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"time"

	"ddd-kernel/config"
	"ddd-kernel/domain/shared"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const (
	mysqlDeadlock    = 1213
	mysqlLockTimeout = 1205
)

type Config struct {
	Enabled            bool
	MaxAttempts        int
	InitialDelay       time.Duration
	MaxDelay           time.Duration
	BackoffFactor      float64
	JitterEnabled      bool
	RetryOnConflict    bool
	RetryOnDeadlock    bool
	RetryOnLockTimeout bool
	RetryPredicate     func(error) bool
}

var DefaultConfig = Config{
	Enabled:            true,
	MaxAttempts:        3,
	InitialDelay:       100 * time.Millisecond,
	MaxDelay:           2 * time.Second,
	BackoffFactor:      2.0,
	JitterEnabled:      true,
	RetryOnConflict:    true,
	RetryOnDeadlock:    true,
	RetryOnLockTimeout: true,
}

// FromAppConfig 从应用配置构建重试配置
func FromAppConfig(appConfig *config.Config) Config {
	rc := appConfig.Database.Retry

	return Config{
		Enabled:            rc.Enabled,
		MaxAttempts:        rc.MaxAttempts,
		InitialDelay:       rc.InitialDelay,
		MaxDelay:           rc.MaxDelay,
		BackoffFactor:      rc.BackoffFactor,
		JitterEnabled:      rc.JitterEnabled,
		RetryOnConflict:    true,
		RetryOnDeadlock:    rc.RetryOnDeadlock,
		RetryOnLockTimeout: rc.RetryOnLockTimeout,
	}
}

// Backoff 第 attempt 次失败后的等待时间
func Backoff(attempt int, config Config) time.Duration {
	if attempt <= 0 {
		return 0
	}
	delay := float64(config.InitialDelay) * math.Pow(config.BackoffFactor, float64(attempt-1))
	if config.MaxDelay > 0 && delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	if config.JitterEnabled {
		delay = delay * (0.8 + rand.Float64()*0.4)
	}
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}

// IsRetryable 判断错误是否值得重试
// 乐观锁冲突、死锁、锁等待超时、连接丢失可重试；领域校验失败、业务冲突与唯一键冲突不重试
func IsRetryable(err error, config Config) bool {
	if err == nil {
		return false
	}
	if config.RetryPredicate != nil && config.RetryPredicate(err) {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return false
	}
	if errors.Is(err, shared.ErrConcurrentModification) {
		return config.RetryOnConflict
	}
	// 其余冲突（重复标题等）是确定性的业务失败
	if errors.Is(err, shared.ErrConflict) {
		return false
	}
	if errors.Is(err, shared.ErrInvalidInput) || errors.Is(err, shared.ErrDomainRule) {
		return false
	}

	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlDeadlock:
			return config.RetryOnDeadlock
		case mysqlLockTimeout:
			return config.RetryOnLockTimeout
		}
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "deadlock") || strings.Contains(errStr, "lock wait timeout") {
		return config.RetryOnDeadlock
	}
	if errors.Is(err, gorm.ErrInvalidTransaction) ||
		(strings.Contains(errStr, "connection") && strings.Contains(errStr, "lost")) {
		return true
	}
	return false
}

// Do 执行 fn，可重试的失败按退避策略重试，返回最后一次的错误
func Do(ctx context.Context, config Config, fn func(ctx context.Context) error) error {
	if !config.Enabled || config.MaxAttempts <= 1 {
		return fn(ctx)
	}

	var lastErr error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastErr = err
		if !IsRetryable(err, config) || attempt == config.MaxAttempts {
			break
		}

		if delay := Backoff(attempt, config); delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}
	}
	return lastErr
}
