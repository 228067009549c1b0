package response

// AppError 携带业务码的错误包装，Message 面向调用方展示
type AppError struct {
	Code    int
	Message string
	Err     error
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

// Unwrap 支持 errors.Is / errors.As 穿透底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 以业务码包装底层错误
func WrapError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
