package config

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions Redis 哈希属性源选项
type RedisOptions struct {
	Addr     string        // 服务器地址
	Username string        // 用户名（可选）
	Password string        // 密码（可选）
	DB       int           // 数据库编号
	Key      string        // 保存属性的哈希键
	Timeout  time.Duration // 读取超时时间（默认 5 秒）

	// Client 已有的客户端，设置后忽略连接参数且不会被关闭
	Client redis.UniversalClient
}

func (o RedisOptions) withDefaults() RedisOptions {
	if o.Timeout == 0 {
		o.Timeout = 5 * time.Second
	}
	if o.Key == "" {
		o.Key = "properties"
	}
	return o
}

// Validate 验证配置
func (o RedisOptions) Validate() error {
	if o.Client == nil && o.Addr == "" {
		return fmt.Errorf("redis addr is required")
	}
	if o.Key == "" {
		return fmt.Errorf("redis hash key is required")
	}
	if o.DB < 0 {
		return fmt.Errorf("redis db must not be negative")
	}
	return nil
}

// RedisSource 从 Redis 哈希中读取属性，字段名即属性键。
type RedisSource struct {
	Options RedisOptions
}

func (s *RedisSource) Name() string {
	if s.Options.Addr == "" {
		return fmt.Sprintf("Redis(%s)", s.Options.Key)
	}
	return fmt.Sprintf("Redis(%s/%s)", s.Options.Addr, s.Options.Key)
}

func (s *RedisSource) Load() (map[string]any, error) {
	if err := s.Options.Validate(); err != nil {
		return nil, err
	}

	client := s.Options.Client
	if client == nil {
		c := redis.NewClient(&redis.Options{
			Addr:     s.Options.Addr,
			Username: s.Options.Username,
			Password: s.Options.Password,
			DB:       s.Options.DB,
		})
		defer c.Close()
		client = c
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.Options.Timeout)
	defer cancel()

	fields, err := client.HGetAll(ctx, s.Options.Key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read hash %s: %w", s.Options.Key, err)
	}

	result := make(map[string]any, len(fields))
	for k, v := range fields {
		result[k] = v
	}
	return result, nil
}
