package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Converter 将属性字符串转换为目标类型的值。
type Converter func(value string) (any, error)

// 本地日期时间的解析格式，按顺序尝试
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"15:04:05",
}

func defaultConverters() map[reflect.Type]Converter {
	return map[reflect.Type]Converter{
		reflect.TypeFor[string]():         func(s string) (any, error) { return s, nil },
		reflect.TypeFor[bool]():           func(s string) (any, error) { return strconv.ParseBool(s) },
		reflect.TypeFor[int]():            func(s string) (any, error) { return strconv.Atoi(s) },
		reflect.TypeFor[int32]():          parseInt32,
		reflect.TypeFor[int64]():          func(s string) (any, error) { return strconv.ParseInt(s, 10, 64) },
		reflect.TypeFor[float64]():        func(s string) (any, error) { return strconv.ParseFloat(s, 64) },
		reflect.TypeFor[time.Time]():      parseTime,
		reflect.TypeFor[time.Duration]():  parseDuration,
		reflect.TypeFor[*time.Location](): func(s string) (any, error) { return time.LoadLocation(s) },
	}
}

func parseInt32(s string) (any, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return nil, err
	}
	return int32(n), nil
}

func parseTime(s string) (any, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized time format %q", s)
}

// isoDuration 匹配 ISO-8601 时长 PnDTnHnMnS，秒可以带小数。
var isoDuration = regexp.MustCompile(`^([-+]?)P(?:([-+]?\d+)D)?(?:T(?:([-+]?\d+)H)?(?:([-+]?\d+)M)?(?:([-+]?\d+(?:\.\d+)?)S)?)?$`)

// parseDuration 先按 Go 语法（"1h30m"）解析，再按 ISO-8601（"PT1H30M"）解析。
func parseDuration(s string) (any, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	m := isoDuration.FindStringSubmatch(s)
	if m == nil || strings.HasSuffix(s, "T") || m[2]+m[3]+m[4]+m[5] == "" {
		return nil, fmt.Errorf("invalid duration %q", s)
	}

	var total time.Duration
	units := []time.Duration{24 * time.Hour, time.Hour, time.Minute}
	for i, unit := range units {
		if m[i+2] == "" {
			continue
		}
		n, err := strconv.ParseInt(m[i+2], 10, 64)
		if err != nil {
			return nil, err
		}
		total += time.Duration(n) * unit
	}
	if m[5] != "" {
		secs, err := strconv.ParseFloat(m[5], 64)
		if err != nil {
			return nil, err
		}
		total += time.Duration(secs * float64(time.Second))
	}
	if m[1] == "-" {
		total = -total
	}
	return total, nil
}
