package di

import (
	"fmt"
	"reflect"
)

// InvokeInit 在实例上调用初始化回调。没有回调或尚无实例时什么也不做。
func InvokeInit(def *Definition) error {
	return invokeHook(def, def.InitHook, "init")
}

// InvokeDestroy 在实例上调用销毁回调。
func InvokeDestroy(def *Definition) error {
	return invokeHook(def, def.DestroyHook, "destroy")
}

// invokeHook 直接构造的定义使用构建时解析好的方法；
// 工厂定义只记录了方法名，在调用时按实例的动态类型解析。
func invokeHook(def *Definition, hook Hook, kind string) error {
	if hook.IsZero() {
		return nil
	}
	instance, ok := def.Instance()
	if !ok {
		return nil
	}
	recv := reflect.ValueOf(instance)

	if !hook.Deferred() {
		if _, err := hook.Method.Call(recv); err != nil {
			return fmt.Errorf("di: %s method of '%s': %w", kind, def.Name, err)
		}
		return nil
	}

	m := recv.MethodByName(hook.Name)
	if !m.IsValid() {
		return fmt.Errorf("di: %s method %s not found on %v for definition '%s'", kind, hook.Name, recv.Type(), def.Name)
	}
	if m.Type().NumIn() != 0 {
		return fmt.Errorf("di: %s method %s of '%s' must not have parameters", kind, hook.Name, def.Name)
	}
	if _, err := (Callable{Name: hook.Name, Fn: m}).Call(); err != nil {
		return fmt.Errorf("di: %s method of '%s': %w", kind, def.Name, err)
	}
	return nil
}
