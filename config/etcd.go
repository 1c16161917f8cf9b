package config

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// EtcdOptions etcd 属性源选项
type EtcdOptions struct {
	Endpoints   []string      // etcd 服务器地址列表
	Username    string        // 用户名（可选）
	Password    string        // 密码（可选）
	Prefix      string        // 键前缀（可选）
	Timeout     time.Duration // 读取超时时间（默认 5 秒）
	DialTimeout time.Duration // 拨号超时时间（默认 5 秒）
}

func (o EtcdOptions) withDefaults() EtcdOptions {
	if o.Timeout == 0 {
		o.Timeout = 5 * time.Second
	}
	if o.DialTimeout == 0 {
		o.DialTimeout = 5 * time.Second
	}
	return o
}

// Validate 验证配置
func (o EtcdOptions) Validate() error {
	if len(o.Endpoints) == 0 {
		return fmt.Errorf("etcd endpoints are required")
	}
	if o.DialTimeout < 0 || o.Timeout < 0 {
		return fmt.Errorf("etcd timeouts must not be negative")
	}
	return nil
}

// EtcdSource etcd 属性源。
// 前缀下的键去掉前缀后以 / 分段，转为点分隔，例如 /app/db/host -> db.host（前缀 /app）。
// 值为 JSON 对象时会展开为嵌套的键，其他值按原文保留。
type EtcdSource struct {
	Options EtcdOptions
}

func (s *EtcdSource) Name() string {
	return fmt.Sprintf("Etcd(%v)", s.Options.Endpoints)
}

func (s *EtcdSource) Load() (map[string]any, error) {
	if err := s.Options.Validate(); err != nil {
		return nil, err
	}

	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   s.Options.Endpoints,
		Username:    s.Options.Username,
		Password:    s.Options.Password,
		DialTimeout: s.Options.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}
	defer cli.Close()

	ctx, cancel := context.WithTimeout(context.Background(), s.Options.Timeout)
	defer cancel()

	// 获取指定前缀下的所有配置
	prefix := s.Options.Prefix
	if prefix == "" {
		prefix = "/"
	}

	resp, err := cli.Get(ctx, prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("failed to get config from etcd: %w", err)
	}

	kvs := make(map[string]string, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		kvs[string(kv.Key)] = string(kv.Value)
	}
	return etcdProperties(s.Options.Prefix, kvs), nil
}

// etcdProperties 将 etcd 键值转换为属性。
func etcdProperties(prefix string, kvs map[string]string) map[string]any {
	result := make(map[string]any, len(kvs))
	for key, value := range kvs {
		// 移除前缀和开头的斜杠
		key = strings.TrimPrefix(key, prefix)
		key = strings.Trim(key, "/")
		if key == "" {
			continue
		}

		// 将路径分隔符 / 转换为 .
		key = strings.ReplaceAll(key, "/", ".")

		var obj map[string]any
		if strings.HasPrefix(strings.TrimSpace(value), "{") && json.Unmarshal([]byte(value), &obj) == nil {
			result[key] = obj
			continue
		}
		result[key] = value
	}
	return result
}
