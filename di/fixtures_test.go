package di_test

import (
	"errors"
	"testing"

	"github.com/gocrud/ioc/di"
	"github.com/gocrud/ioc/meta"
)

type UserService struct {
	started int
	stopped int
}

func NewUserService() *UserService { return &UserService{} }

func (s *UserService) Start() { s.started++ }

func (s *UserService) Stop() error {
	s.stopped++
	return nil
}

func (s *UserService) Configure(n int) { s.started = n }

type Greeter interface {
	Greet() string
}

type EnglishGreeter struct{}

func (*EnglishGreeter) Greet() string { return "hello" }

type ChineseGreeter struct{}

func (*ChineseGreeter) Greet() string { return "你好" }

type FrenchGreeter struct{}

func (*FrenchGreeter) Greet() string { return "bonjour" }

type Widget struct {
	Label string
}

type Conn struct {
	opened bool
	closed bool
}

func (c *Conn) Open() { c.opened = true }
func (c *Conn) Close() { c.closed = true }

type WidgetConfig struct{}

func (*WidgetConfig) CreateWidget() *Widget { return &Widget{Label: "default"} }

func (*WidgetConfig) NamedWidget() (*Widget, error) { return &Widget{Label: "named"}, nil }

func (*WidgetConfig) CreateConn() *Conn { return &Conn{} }

func (*WidgetConfig) Touch() {}

func (*WidgetConfig) Fail() error { return errors.New("boom") }

func (*WidgetConfig) Count() int { return 1 }

type Multi struct{ name string }

type Color int

type hidden struct{}

type Marker struct{}

type Plain struct{ ready bool }

type Ranked interface{ Rank() }

type ZRanked struct{}
type ARanked struct{}
type BRanked struct{}

func (*ZRanked) Rank() {}
func (*ARanked) Rank() {}
func (*BRanked) Rank() {}

func component(values ...string) meta.Tag {
	return meta.New(meta.Component, values...)
}

func bean(values ...string) meta.Tag {
	return meta.New(meta.Bean, values...)
}

// build 把声明放入新的目录并构建全部候选。
func build(t *testing.T, table *meta.Table, decls ...*di.TypeDecl) (*di.Registry, error) {
	t.Helper()
	if table == nil {
		table = meta.NewTable()
	}
	catalog := di.NewCatalog()
	if err := catalog.Add(decls...); err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return di.NewBuilder(table, catalog).Build(catalog.Enumerate(""))
}
