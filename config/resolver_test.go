package config_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/gocrud/ioc/config"
)

func newResolver(props map[string]string) *config.PropertyResolver {
	return config.NewPropertyResolver(props, config.WithoutEnvironment())
}

func TestResolver_Get(t *testing.T) {
	r := newResolver(map[string]string{
		"app.title":   "Summer",
		"app.version": "v1.0",
		"app.alias":   "${app.title}",
		"app.nested":  "${app.missing:${app.title}}",
		"app.empty":   "",
	})

	cases := []struct {
		key   string
		want  string
		found bool
	}{
		{"app.title", "Summer", true},
		{"app.alias", "Summer", true},
		{"app.nested", "Summer", true},
		{"app.empty", "", true},
		{"app.none", "", false},
		{"${app.version}", "v1.0", true},
		{"${app.none:fallback}", "fallback", true},
		{"${app.none:}", "", true},
		{"${app.none:${app.title}}", "Summer", true},
		{"${app.none:${app.other:deep}}", "deep", true},
		{"${app.none:http://localhost:8080}", "http://localhost:8080", true},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			got, found, err := r.Get(tc.key)
			require.NoError(t, err)
			assert.Equal(t, tc.found, found)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolver_MissingRequiredPlaceholder(t *testing.T) {
	r := newResolver(map[string]string{"a": "${b}"})

	_, _, err := r.Get("${missing}")
	var nf *config.PropertyNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.Key)

	_, _, err = r.Get("a")
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "b", nf.Key)

	_, err = r.GetRequired("nope")
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "config: property 'nope' not found", err.Error())
}

func TestResolver_GetWithDefault(t *testing.T) {
	r := newResolver(map[string]string{"host": "example.com"})

	v, err := r.GetWithDefault("host", "localhost")
	require.NoError(t, err)
	assert.Equal(t, "example.com", v)

	v, err = r.GetWithDefault("port", "8080")
	require.NoError(t, err)
	assert.Equal(t, "8080", v)

	// 默认值本身也会被解析
	v, err = r.GetWithDefault("url", "${host}")
	require.NoError(t, err)
	assert.Equal(t, "example.com", v)
}

func TestResolver_CircularReference(t *testing.T) {
	r := newResolver(map[string]string{
		"a":    "${b}",
		"b":    "${a}",
		"self": "${self:x}",
	})

	_, _, err := r.Get("a")
	assert.True(t, errors.Is(err, config.ErrCircularReference))

	_, err = r.GetRequired("${self}")
	assert.ErrorIs(t, err, config.ErrCircularReference)
}

func TestResolver_EnvironmentFirst(t *testing.T) {
	r := config.NewPropertyResolver(
		map[string]string{"HOME": "/override", "app.name": "ioc"},
		config.WithEnvironment([]string{"HOME=/root", "SHELL=/bin/sh", "BROKEN"}),
	)

	home, _, err := r.Get("HOME")
	require.NoError(t, err)
	assert.Equal(t, "/override", home)
	assert.True(t, r.Contains("SHELL"))
	assert.False(t, r.Contains("BROKEN"))
	assert.Equal(t, []string{"HOME", "SHELL", "app.name"}, r.Keys())
}

func TestResolver_ProcessEnvironment(t *testing.T) {
	t.Setenv("IOC_TEST_GREETING", "hi")
	r := config.NewPropertyResolver(nil)

	v, err := r.GetRequired("${IOC_TEST_GREETING}")
	require.NoError(t, err)
	assert.Equal(t, "hi", v)
}

func TestResolver_GetAs(t *testing.T) {
	r := newResolver(map[string]string{
		"server.port":    "8080",
		"server.debug":   "true",
		"server.ratio":   "0.75",
		"server.big":     "9000000000",
		"server.small":   "-12",
		"server.timeout": "PT1H30M",
		"server.retry":   "250ms",
		"server.date":    "2024-03-01",
		"server.start":   "2024-03-01T08:30:00",
		"server.zoned":   "2024-03-01T08:30:00+08:00",
		"server.clock":   "08:30:00",
		"server.zone":    "Asia/Shanghai",
	})

	port, ok, err := config.As[int](r, "server.port")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 8080, port)

	debug, err := config.RequiredAs[bool](r, "server.debug")
	require.NoError(t, err)
	assert.True(t, debug)

	ratio, err := config.RequiredAs[float64](r, "server.ratio")
	require.NoError(t, err)
	assert.InDelta(t, 0.75, ratio, 1e-9)

	big, err := config.RequiredAs[int64](r, "server.big")
	require.NoError(t, err)
	assert.Equal(t, int64(9000000000), big)

	small, err := config.RequiredAs[int32](r, "server.small")
	require.NoError(t, err)
	assert.Equal(t, int32(-12), small)

	timeout, err := config.RequiredAs[time.Duration](r, "server.timeout")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, timeout)

	retry, err := config.RequiredAs[time.Duration](r, "server.retry")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, retry)

	date, err := config.RequiredAs[time.Time](r, "server.date")
	require.NoError(t, err)
	assert.Equal(t, time.March, date.Month())
	assert.Equal(t, 1, date.Day())

	start, err := config.RequiredAs[time.Time](r, "server.start")
	require.NoError(t, err)
	assert.Equal(t, 8, start.Hour())
	assert.Equal(t, 30, start.Minute())

	zoned, err := config.RequiredAs[time.Time](r, "server.zoned")
	require.NoError(t, err)
	_, offset := zoned.Zone()
	assert.Equal(t, 8*3600, offset)

	clock, err := config.RequiredAs[time.Time](r, "server.clock")
	require.NoError(t, err)
	assert.Equal(t, 8, clock.Hour())

	zone, err := config.RequiredAs[*time.Location](r, "server.zone")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Shanghai", zone.String())

	// 占位符形式同样可以转换
	fallback, ok, err := config.As[int](r, "${server.workers:4}")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, fallback)

	_, ok, err = config.As[int](r, "server.missing")
	require.NoError(t, err)
	assert.False(t, ok)

	v, err := r.GetAsWithDefault("server.missing", reflect.TypeFor[int](), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = r.GetRequiredAs("server.missing", reflect.TypeFor[int]())
	var nf *config.PropertyNotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestResolver_ConversionFailures(t *testing.T) {
	r := newResolver(map[string]string{"port": "http", "flag": "yes"})

	_, _, err := r.GetAs("port", reflect.TypeFor[int]())
	var ce *config.ConversionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "port", ce.Key)

	// bool 只接受 strconv.ParseBool 的格式
	_, _, err = r.GetAs("flag", reflect.TypeFor[bool]())
	assert.ErrorAs(t, err, &ce)

	_, _, err = r.GetAs("port", reflect.TypeFor[[]string]())
	var ut *config.UnsupportedTypeError
	require.ErrorAs(t, err, &ut)
	assert.Equal(t, reflect.TypeFor[[]string](), ut.Type)
}

type Level int

func TestResolver_RegisterConverter(t *testing.T) {
	r := newResolver(map[string]string{"level": "high", "flag": "yes"})

	r.RegisterConverter(reflect.TypeFor[Level](), func(s string) (any, error) {
		if s == "high" {
			return Level(2), nil
		}
		return Level(0), nil
	})
	level, err := config.RequiredAs[Level](r, "level")
	require.NoError(t, err)
	assert.Equal(t, Level(2), level)

	// 自定义转换器优先于内置转换器
	r.RegisterConverter(reflect.TypeFor[bool](), func(s string) (any, error) {
		return s == "yes" || s == "true", nil
	})
	flag, err := config.RequiredAs[bool](r, "flag")
	require.NoError(t, err)
	assert.True(t, flag)
}

func TestDurationConverter(t *testing.T) {
	r := newResolver(map[string]string{
		"days":     "P2D",
		"mixed":    "P1DT2H3M4S",
		"fraction": "PT0.5S",
		"negative": "-PT15M",
		"empty":    "P",
		"dangling": "P1DT",
	})

	cases := map[string]time.Duration{
		"days":     48 * time.Hour,
		"mixed":    26*time.Hour + 3*time.Minute + 4*time.Second,
		"fraction": 500 * time.Millisecond,
		"negative": -15 * time.Minute,
	}
	for key, want := range cases {
		got, err := config.RequiredAs[time.Duration](r, key)
		require.NoError(t, err, key)
		assert.Equal(t, want, got, key)
	}

	for _, key := range []string{"empty", "dangling"} {
		_, err := config.RequiredAs[time.Duration](r, key)
		assert.Error(t, err, key)
	}
}

func TestResolver_LiteralValuesProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		key := rapid.StringMatching(`[a-z][a-z0-9.]{0,12}`).Draw(t, "key")
		value := rapid.String().Filter(func(s string) bool {
			return !strings.HasPrefix(s, "${")
		}).Draw(t, "value")

		r := newResolver(map[string]string{key: value})
		got, found, err := r.Get(key)
		if err != nil || !found || got != value {
			t.Fatalf("Get(%q) = %q, %v, %v; want %q", key, got, found, err, value)
		}

		def, err := r.GetWithDefault("${"+key+":unused}", "x")
		if err != nil || def != value {
			t.Fatalf("placeholder lookup = %q, %v; want %q", def, err, value)
		}
	})
}
