package assert

import "fmt"

// NotNil panics when value is nil, use it for constructor arguments that are
// programmer errors rather than runtime conditions.
func NotNil(value any, name ...string) {
	if value == nil {
		panic(fmt.Sprintf("expected value to be not nil %v", name))
	}
}

func NotEmptyStr(str string, name ...string) {
	if str == "" {
		panic(fmt.Sprintf("expected string to be non-empty %v", name))
	}
}
