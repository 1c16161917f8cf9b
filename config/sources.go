package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// InMemorySource 内存属性源
type InMemorySource struct {
	Data map[string]any
}

func (s *InMemorySource) Name() string {
	return "InMemory"
}

func (s *InMemorySource) Load() (map[string]any, error) {
	// 返回副本
	result := make(map[string]any, len(s.Data))
	for k, v := range s.Data {
		result[k] = v
	}
	return result, nil
}

// readFile 读取文件，可选文件不存在时返回 nil。
func readFile(path string, optional bool) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// JsonFileSource JSON 文件属性源，数字按原文保留
type JsonFileSource struct {
	Path     string
	Optional bool
}

func (s *JsonFileSource) Name() string {
	return fmt.Sprintf("JsonFile(%s)", s.Path)
}

func (s *JsonFileSource) Load() (map[string]any, error) {
	data, err := readFile(s.Path, s.Optional)
	if err != nil || data == nil {
		return make(map[string]any), err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var result map[string]any
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return result, nil
}

// YamlFileSource YAML 文件属性源。
// 标量按原文保留（不做 YAML 隐式类型转换），例如 "on" 和 "0755" 保持不变。
type YamlFileSource struct {
	Path     string
	Optional bool
}

func (s *YamlFileSource) Name() string {
	return fmt.Sprintf("YamlFile(%s)", s.Path)
}

func (s *YamlFileSource) Load() (map[string]any, error) {
	data, err := readFile(s.Path, s.Optional)
	if err != nil || data == nil {
		return make(map[string]any), err
	}
	return parseYaml(data)
}

func parseYaml(data []byte) (map[string]any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	value := yamlValue(&root)
	if value == nil {
		return make(map[string]any), nil
	}
	m, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("failed to parse YAML: top level must be a mapping")
	}
	return m, nil
}

func yamlValue(n *yaml.Node) any {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return yamlValue(n.Content[0])
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			m[n.Content[i].Value] = yamlValue(n.Content[i+1])
		}
		return m
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, child := range n.Content {
			list = append(list, yamlValue(child))
		}
		return list
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil
		}
		return n.Value
	}
	return nil
}

// TomlFileSource TOML 文件属性源
type TomlFileSource struct {
	Path     string
	Optional bool
}

func (s *TomlFileSource) Name() string {
	return fmt.Sprintf("TomlFile(%s)", s.Path)
}

func (s *TomlFileSource) Load() (map[string]any, error) {
	data, err := readFile(s.Path, s.Optional)
	if err != nil || data == nil {
		return make(map[string]any), err
	}

	var result map[string]any
	if err := toml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return result, nil
}

// DotEnvSource .env 文件属性源，键保持原样
type DotEnvSource struct {
	Path     string
	Optional bool
}

func (s *DotEnvSource) Name() string {
	return fmt.Sprintf("DotEnv(%s)", s.Path)
}

func (s *DotEnvSource) Load() (map[string]any, error) {
	if _, err := os.Stat(s.Path); err != nil {
		if s.Optional && errors.Is(err, fs.ErrNotExist) {
			return make(map[string]any), nil
		}
		return nil, err
	}

	env, err := godotenv.Read(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse .env: %w", err)
	}
	result := make(map[string]any, len(env))
	for k, v := range env {
		result[k] = v
	}
	return result, nil
}

// EnvironmentVariableSource 环境变量属性源。
// 只载入以 Prefix 开头的变量，名称转为小写并将 _ 替换为 .，例如 APP_DB_HOST -> app.db.host。
type EnvironmentVariableSource struct {
	Prefix string
}

func (s *EnvironmentVariableSource) Name() string {
	return fmt.Sprintf("EnvironmentVariables(%s)", s.Prefix)
}

func (s *EnvironmentVariableSource) Load() (map[string]any, error) {
	result := make(map[string]any)

	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok || key == "" {
			continue
		}

		// 检查前缀
		if s.Prefix != "" && !strings.HasPrefix(key, s.Prefix) {
			continue
		}

		key = strings.ToLower(strings.ReplaceAll(key, "_", "."))
		result[key] = value
	}

	return result, nil
}

// ViperSource 读取 viper 中的全部设置（键已由 viper 转为小写）
type ViperSource struct {
	Viper *viper.Viper
}

func (s *ViperSource) Name() string {
	return "Viper"
}

func (s *ViperSource) Load() (map[string]any, error) {
	if s.Viper == nil {
		return nil, errors.New("viper instance is nil")
	}
	return s.Viper.AllSettings(), nil
}
