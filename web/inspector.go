package web

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gocrud/ioc/config"
	"github.com/gocrud/ioc/di"
	"github.com/gocrud/ioc/logging"
)

// Inspector 以只读方式暴露定义注册表和属性解析器
//
//	GET /definitions          所有定义，按 (order, name) 排序
//	GET /definitions/:name    单个定义
//	GET /properties/*key      解析后的属性值，key 为空时列出所有键
type Inspector struct {
	registry   *di.Registry
	properties *config.PropertyResolver
	logger     logging.Logger
}

// NewInspector 创建检查控制器，props 可以为 nil
func NewInspector(registry *di.Registry, props *config.PropertyResolver, logger logging.Logger) *Inspector {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Inspector{registry: registry, properties: props, logger: logger}
}

// DefinitionView 是定义的 JSON 视图
type DefinitionView struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Order        int      `json:"order"`
	Primary      bool     `json:"primary"`
	Creation     string   `json:"creation"`
	Factory      string   `json:"factory,omitempty"`
	Method       string   `json:"method,omitempty"`
	InitHook     string   `json:"initHook,omitempty"`
	DestroyHook  string   `json:"destroyHook,omitempty"`
	Capabilities []string `json:"capabilities"`
	Instantiated bool     `json:"instantiated"`
}

// PropertyView 是属性的 JSON 视图
type PropertyView struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (i *Inspector) MountRoutes(router gin.IRouter) {
	router.GET("/definitions", i.listDefinitions)
	router.GET("/definitions/:name", i.getDefinition)
	router.GET("/properties/*key", i.getProperty)
}

func (i *Inspector) listDefinitions(c *gin.Context) {
	defs := i.registry.All()
	views := make([]DefinitionView, 0, len(defs))
	for _, def := range defs {
		views = append(views, viewOf(def))
	}
	c.JSON(http.StatusOK, views)
}

func (i *Inspector) getDefinition(c *gin.Context) {
	name := c.Param("name")
	def, ok := i.registry.Lookup(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("definition '%s' not found", name)})
		return
	}
	c.JSON(http.StatusOK, viewOf(def))
}

func (i *Inspector) getProperty(c *gin.Context) {
	if i.properties == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no property resolver"})
		return
	}

	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		c.JSON(http.StatusOK, i.properties.Keys())
		return
	}

	value, ok, err := i.properties.Get(key)
	if err != nil {
		i.logger.Warn("Property resolution failed",
			logging.Field{Key: "key", Value: key},
			logging.Field{Key: "error", Value: err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("property '%s' not found", key)})
		return
	}
	c.JSON(http.StatusOK, PropertyView{Key: key, Value: value})
}

func viewOf(def *di.Definition) DefinitionView {
	v := DefinitionView{
		Name:        def.Name,
		Type:        def.Type.String(),
		Order:       def.Order,
		Primary:     def.Primary,
		Creation:    "direct",
		InitHook:    hookName(def.InitHook),
		DestroyHook: hookName(def.DestroyHook),
	}
	if fc, ok := def.Creation.(*di.FactoryConstruction); ok {
		v.Creation = "factory"
		v.Factory = fc.FactoryDefinition
		v.Method = fc.Method.Name
	}
	for _, t := range def.Capabilities() {
		v.Capabilities = append(v.Capabilities, t.String())
	}
	slices.Sort(v.Capabilities)
	_, v.Instantiated = def.Instance()
	return v
}

func hookName(h di.Hook) string {
	if h.Deferred() {
		return h.Name
	}
	return h.Method.Name
}
