package util

// ErrWrap returns fallback in place of value when err is set. Meant for
// inlining reads whose error path only ever means "use the default".
func ErrWrap[T any](fallback T) func(T, error) T {
	return func(value T, err error) T {
		if err != nil {
			return fallback
		}
		return value
	}
}

// ErrSuppress swallows an error on purpose.
func ErrSuppress(_ error) {}

// First returns the first non-empty string.
func First(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
