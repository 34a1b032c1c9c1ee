package httpapi

// Result is the JSON envelope every endpoint answers with.
// - code: 2000 on success, -1 on error, 60401 on an expired/missing session
// - type: 'success' | 'error'
// - message: human-readable outcome
// - result: the payload
type Result[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

const (
	ResultSuccess = 2000
	ResultError   = -1
	// ResultSessionExpired pairs with HTTP 401 so clients can redirect to login.
	ResultSessionExpired = 60401
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

func Fail(message string) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Message: message, Result: nil}
}

func SessionExpired() Result[any] {
	return Result[any]{Code: ResultSessionExpired, Type: "error", Message: "session expired", Result: nil}
}
