package logger

import (
	"context"
	"errors"
	log "log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisLoggerHook struct{}

func NewRedisLogger() *RedisLoggerHook {
	return &RedisLoggerHook{}
}

// DialHook 记录建立连接的事件
func (s *RedisLoggerHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := next(ctx, network, addr)
		elapsed := time.Since(start)

		if err != nil {
			log.ErrorContext(ctx, "Redis Dial Error",
				log.String("addr", addr),
				log.Duration("latency", elapsed),
				log.Any("err", err),
			)
		}
		return conn, err
	}
}

// ProcessHook 记录普通单条命令执行情况
func (s *RedisLoggerHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		elapsed := time.Since(start)

		if err != nil && !errors.Is(err, redis.Nil) {
			log.ErrorContext(ctx, "Redis Error",
				log.String("cmd", cmd.Name()),
				log.Duration("latency", elapsed),
				log.Any("err", err),
			)
		} else if elapsed > 100*time.Millisecond {
			log.WarnContext(ctx, "Redis Slow",
				log.String("cmd", cmd.Name()),
				log.Duration("latency", elapsed),
			)
		}
		return err
	}
}

// ProcessPipelineHook 记录管道命令执行情况
func (s *RedisLoggerHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		elapsed := time.Since(start)

		if err != nil && !errors.Is(err, redis.Nil) {
			names := make([]string, 0, len(cmds))
			for _, cmd := range cmds {
				names = append(names, cmd.Name())
			}
			log.ErrorContext(ctx, "Redis Pipeline Error",
				log.String("cmds", strings.Join(names, ",")),
				log.Duration("latency", elapsed),
				log.Any("err", err),
			)
		}
		return err
	}
}
