package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/gocrud/ioc/logging"
)

// Source 属性源接口。Load 返回的值可以是嵌套的，由 Builder 扁平化为点分隔的键。
type Source interface {
	Load() (map[string]any, error)
	Name() string
}

// Builder 按顺序收集属性源并构建 PropertyResolver。
// 后添加的属性源覆盖先前的同名键，环境变量总是最先载入。
type Builder struct {
	sources []Source
	opts    []ResolverOption
	mu      sync.RWMutex
}

// NewBuilder 创建属性源构建器，opts 会传给最终的 PropertyResolver。
func NewBuilder(opts ...ResolverOption) *Builder {
	return &Builder{
		sources: make([]Source, 0),
		opts:    opts,
	}
}

// Add 添加属性源
func (b *Builder) Add(source Source) *Builder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sources = append(b.sources, source)
	return b
}

// AddInMemory 添加内存属性源
func (b *Builder) AddInMemory(data map[string]any) *Builder {
	return b.Add(&InMemorySource{Data: data})
}

// AddJsonFile 添加 JSON 文件属性源
func (b *Builder) AddJsonFile(path string, optional ...bool) *Builder {
	return b.Add(&JsonFileSource{Path: path, Optional: isOptional(optional)})
}

// AddYamlFile 添加 YAML 文件属性源
func (b *Builder) AddYamlFile(path string, optional ...bool) *Builder {
	return b.Add(&YamlFileSource{Path: path, Optional: isOptional(optional)})
}

// AddTomlFile 添加 TOML 文件属性源
func (b *Builder) AddTomlFile(path string, optional ...bool) *Builder {
	return b.Add(&TomlFileSource{Path: path, Optional: isOptional(optional)})
}

// AddDotEnv 添加 .env 文件属性源
func (b *Builder) AddDotEnv(path string, optional ...bool) *Builder {
	return b.Add(&DotEnvSource{Path: path, Optional: isOptional(optional)})
}

// AddEnvironmentVariables 添加带前缀的环境变量属性源（APP_DB_HOST -> app.db.host）
func (b *Builder) AddEnvironmentVariables(prefix string) *Builder {
	return b.Add(&EnvironmentVariableSource{Prefix: prefix})
}

// AddViper 添加 viper 实例中的全部设置
func (b *Builder) AddViper(v *viper.Viper) *Builder {
	return b.Add(&ViperSource{Viper: v})
}

// AddEtcd 添加 etcd 属性源
func (b *Builder) AddEtcd(opts EtcdOptions) *Builder {
	return b.Add(&EtcdSource{Options: opts.withDefaults()})
}

// AddRedis 添加 Redis 哈希属性源
func (b *Builder) AddRedis(opts RedisOptions) *Builder {
	return b.Add(&RedisSource{Options: opts.withDefaults()})
}

// AddDatabase 添加数据库键值表属性源
func (b *Builder) AddDatabase(db *gorm.DB, table string) *Builder {
	return b.Add(&DatabaseSource{DB: db, Table: table})
}

// AddMongo 添加 MongoDB 集合属性源
func (b *Builder) AddMongo(opts MongoOptions) *Builder {
	return b.Add(&MongoSource{Options: opts.withDefaults()})
}

// Build 依次加载全部属性源并构建解析器。任何属性源失败都会返回错误。
func (b *Builder) Build() (*PropertyResolver, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	o := defaultResolverOptions()
	for _, opt := range b.opts {
		opt(o)
	}

	props := make(map[string]string)
	for _, source := range b.sources {
		data, err := source.Load()
		if err != nil {
			return nil, fmt.Errorf("config: failed to load source %s: %w", source.Name(), err)
		}

		flat := Flatten(data)
		for k, v := range flat {
			props[k] = v
		}
		o.logger.Debug("property source loaded",
			logging.Field{Key: "source", Value: source.Name()},
			logging.Field{Key: "count", Value: len(flat)})
	}

	return NewPropertyResolver(props, b.opts...), nil
}

func isOptional(optional []bool) bool {
	return len(optional) > 0 && optional[0]
}
