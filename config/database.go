package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DefaultPropertyTable 是数据库属性源的默认表名。
const DefaultPropertyTable = "properties"

// Property 是数据库属性表中的一行。
type Property struct {
	Key   string `gorm:"column:prop_key;primaryKey;size:255"`
	Value string `gorm:"column:prop_value"`
}

// MigrateProperties 创建或更新属性表。
func MigrateProperties(db *gorm.DB, table string) error {
	if table == "" {
		table = DefaultPropertyTable
	}
	return db.Table(table).AutoMigrate(&Property{})
}

// DatabaseSource 从数据库键值表读取属性。
type DatabaseSource struct {
	DB      *gorm.DB
	Table   string
	Timeout time.Duration
}

func (s *DatabaseSource) Name() string {
	return fmt.Sprintf("Database(%s)", s.table())
}

func (s *DatabaseSource) table() string {
	if s.Table == "" {
		return DefaultPropertyTable
	}
	return s.Table
}

func (s *DatabaseSource) Load() (map[string]any, error) {
	if s.DB == nil {
		return nil, errors.New("database is nil")
	}

	timeout := s.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var rows []Property
	if err := s.DB.WithContext(ctx).Table(s.table()).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.table(), err)
	}

	result := make(map[string]any, len(rows))
	for _, row := range rows {
		result[row.Key] = row.Value
	}
	return result, nil
}
