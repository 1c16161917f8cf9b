package di_test

import (
	"fmt"
	"io"
	"reflect"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/gocrud/ioc/di"
)

var greeterType = di.TypeOf[Greeter]()

func greeterDef(name string, typ reflect.Type, order int, primary bool) *di.Definition {
	def := di.NewDefinition(name, typ, &di.DirectConstruction{}, greeterType)
	def.Order = order
	def.Primary = primary
	return def
}

func TestRegistry_ByTypeSortedByOrderThenName(t *testing.T) {
	reg := di.NewRegistry(nil)
	require.NoError(t, reg.Register(greeterDef("b", di.TypeOf[*BRanked](), di.DefaultOrder, false)))
	require.NoError(t, reg.Register(greeterDef("a", di.TypeOf[*ARanked](), di.DefaultOrder, false)))
	require.NoError(t, reg.Register(greeterDef("z", di.TypeOf[*ZRanked](), 1, false)))

	var names []string
	for _, def := range reg.ByType(greeterType) {
		names = append(names, def.Name)
	}
	assert.Equal(t, []string{"z", "a", "b"}, names)
}

func TestRegistry_UniqueByType(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		def, err := di.NewRegistry(nil).UniqueByType(greeterType)
		assert.NoError(t, err)
		assert.Nil(t, def)
	})

	t.Run("single", func(t *testing.T) {
		reg := di.NewRegistry(nil)
		require.NoError(t, reg.Register(greeterDef("en", di.TypeOf[*EnglishGreeter](), di.DefaultOrder, false)))
		def, err := reg.UniqueByType(greeterType)
		require.NoError(t, err)
		assert.Equal(t, "en", def.Name)
	})

	t.Run("primary", func(t *testing.T) {
		reg := di.NewRegistry(nil)
		require.NoError(t, reg.Register(greeterDef("en", di.TypeOf[*EnglishGreeter](), di.DefaultOrder, false)))
		require.NoError(t, reg.Register(greeterDef("zh", di.TypeOf[*ChineseGreeter](), di.DefaultOrder, true)))
		def, err := reg.UniqueByType(greeterType)
		require.NoError(t, err)
		assert.Equal(t, "zh", def.Name)
	})

	t.Run("no primary", func(t *testing.T) {
		reg := di.NewRegistry(nil)
		require.NoError(t, reg.Register(greeterDef("en", di.TypeOf[*EnglishGreeter](), di.DefaultOrder, false)))
		require.NoError(t, reg.Register(greeterDef("zh", di.TypeOf[*ChineseGreeter](), di.DefaultOrder, false)))
		_, err := reg.UniqueByType(greeterType)
		var ae *di.AmbiguousDefinitionError
		require.ErrorAs(t, err, &ae)
		assert.False(t, ae.MultiplePrimary)
		assert.Contains(t, err.Error(), "but no primary specified")
	})

	t.Run("multiple primary", func(t *testing.T) {
		reg := di.NewRegistry(nil)
		require.NoError(t, reg.Register(greeterDef("en", di.TypeOf[*EnglishGreeter](), di.DefaultOrder, true)))
		require.NoError(t, reg.Register(greeterDef("zh", di.TypeOf[*ChineseGreeter](), di.DefaultOrder, true)))
		_, err := reg.UniqueByType(greeterType)
		var ae *di.AmbiguousDefinitionError
		require.ErrorAs(t, err, &ae)
		assert.True(t, ae.MultiplePrimary)
		assert.Contains(t, err.Error(), "and multiple primary specified")
	})
}

func TestRegistry_ByName(t *testing.T) {
	reg := di.NewRegistry(nil)
	require.NoError(t, reg.Register(greeterDef("en", di.TypeOf[*EnglishGreeter](), di.DefaultOrder, false)))

	def, err := reg.ByName("missing", greeterType)
	assert.NoError(t, err)
	assert.Nil(t, def)

	def, err = reg.ByName("en", di.TypeOf[*EnglishGreeter]())
	require.NoError(t, err)
	assert.Equal(t, "en", def.Name)

	_, err = reg.ByName("en", di.TypeOf[*Widget]())
	var tm *di.TypeMismatchError
	require.ErrorAs(t, err, &tm)
	assert.Equal(t, di.TypeOf[*Widget](), tm.Required)
	assert.Equal(t, di.TypeOf[*EnglishGreeter](), tm.Actual)

	ref := di.NewRef[Greeter]("en")
	def, err = ref.Lookup(reg)
	require.NoError(t, err)
	assert.Equal(t, "en", def.Name)
	assert.Equal(t, "Ref[di_test.Greeter](en)", ref.String())
}

type Resource struct{}

func (*Resource) Close() error { return nil }

func TestRegistry_ByNameAgreesWithByType(t *testing.T) {
	closerType := di.TypeOf[io.Closer]()

	t.Run("outside capability set", func(t *testing.T) {
		reg := di.NewRegistry(nil)
		require.NoError(t, reg.Register(di.NewDefinition("resource", di.TypeOf[*Resource](), &di.DirectConstruction{})))

		_, err := reg.ByName("resource", closerType)
		var tm *di.TypeMismatchError
		require.ErrorAs(t, err, &tm)
		assert.Empty(t, reg.ByType(closerType))

		def, err := reg.UniqueByType(closerType)
		assert.NoError(t, err)
		assert.Nil(t, def)
	})

	t.Run("inside capability set", func(t *testing.T) {
		reg := di.NewRegistry(nil)
		require.NoError(t, reg.Register(di.NewDefinition("resource", di.TypeOf[*Resource](), &di.DirectConstruction{}, closerType)))

		def, err := reg.ByName("resource", closerType)
		require.NoError(t, err)
		assert.Equal(t, "resource", def.Name)
		require.Len(t, reg.ByType(closerType), 1)

		def, err = reg.UniqueByType(closerType)
		require.NoError(t, err)
		assert.Equal(t, "resource", def.Name)
	})
}

func TestRegistry_Sealed(t *testing.T) {
	reg := di.NewRegistry(nil)
	require.NoError(t, reg.Register(greeterDef("en", di.TypeOf[*EnglishGreeter](), di.DefaultOrder, false)))
	require.NoError(t, reg.Seal())
	assert.True(t, reg.Sealed())

	err := reg.Register(greeterDef("zh", di.TypeOf[*ChineseGreeter](), di.DefaultOrder, false))
	var de *di.DefinitionError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_UnknownFactory(t *testing.T) {
	reg := di.NewRegistry(nil)
	require.NoError(t, reg.Register(di.NewDefinition("w", di.TypeOf[*Widget](), &di.FactoryConstruction{FactoryDefinition: "nope"})))

	err := reg.Seal()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown factory definition 'nope'")
	assert.False(t, reg.Sealed())
}

func TestRegistry_CircularFactory(t *testing.T) {
	reg := di.NewRegistry(nil)
	require.NoError(t, reg.Register(di.NewDefinition("a", di.TypeOf[*Widget](), &di.FactoryConstruction{FactoryDefinition: "b"})))
	require.NoError(t, reg.Register(di.NewDefinition("b", di.TypeOf[*Conn](), &di.FactoryConstruction{FactoryDefinition: "a"})))

	err := reg.Seal()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular factory reference")
}

func TestRegistry_ByTypeOrderingProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		orders := rapid.SliceOfN(rapid.IntRange(-3, 3), 1, 20).Draw(t, "orders")

		reg := di.NewRegistry(nil)
		for i, order := range orders {
			def := greeterDef(fmt.Sprintf("g%02d", i), di.TypeOf[*EnglishGreeter](), order, false)
			if err := reg.Register(def); err != nil {
				t.Fatalf("register: %v", err)
			}
		}

		defs := reg.ByType(greeterType)
		if len(defs) != len(orders) {
			t.Fatalf("got %d definitions, want %d", len(defs), len(orders))
		}
		sorted := slices.IsSortedFunc(defs, func(a, b *di.Definition) int {
			if a.Order != b.Order {
				return a.Order - b.Order
			}
			if a.Name < b.Name {
				return -1
			}
			return 1
		})
		if !sorted {
			t.Fatalf("definitions not sorted by (order, name)")
		}
	})
}

func BenchmarkRegistry_UniqueByType(b *testing.B) {
	reg := di.NewRegistry(nil)
	for i := range 100 {
		_ = reg.Register(greeterDef(fmt.Sprintf("g%03d", i), di.TypeOf[*EnglishGreeter](), i, i == 50))
	}
	_ = reg.Seal()

	b.ResetTimer()
	for b.Loop() {
		if _, err := reg.UniqueByType(greeterType); err != nil {
			b.Fatal(err)
		}
	}
}
