package errors

import (
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"
)

// CustomizedError 携带调用链, http 状态码和 i18n 文案 key
type CustomizedError struct {
	cause   error
	message string
	trace   []string
	code    int
	data    map[string]interface{}
}

func New(trace, message string, err error) *CustomizedError {
	return &CustomizedError{
		cause:   err,
		message: message,
		trace:   []string{trace},
		code:    http.StatusInternalServerError,
	}
}

// Wrap 包装一个已有错误, 继承其中 CustomizedError 的状态码
func Wrap(err error, trace, message string) *CustomizedError {
	ce := &CustomizedError{
		cause:   err,
		message: message,
		trace:   []string{trace},
		code:    http.StatusInternalServerError,
	}
	if income, ok := As(err); ok {
		ce.code = income.code
	}
	return ce
}

// Trace 给 CustomizedError 追加调用点, 普通错误会被包装
func Trace(trace string, err error) *CustomizedError {
	if ce, ok := err.(*CustomizedError); ok {
		ce.trace = append(ce.trace, trace)
		return ce
	}
	return Wrap(err, trace, err.Error())
}

func (e *CustomizedError) Code(c int) *CustomizedError {
	e.code = c
	return e
}

func (e *CustomizedError) GetCode() int {
	return e.code
}

// WithData 文案模板参数
func (e *CustomizedError) WithData(data map[string]interface{}) *CustomizedError {
	e.data = data
	return e
}

func (e *CustomizedError) Data() map[string]interface{} {
	return e.data
}

func (e *CustomizedError) Trace(trace string) *CustomizedError {
	e.trace = append(e.trace, trace)
	return e
}

func (e *CustomizedError) Message() string {
	if e.message == "" && e.cause != nil {
		return e.cause.Error()
	}
	return e.message
}

func (e *CustomizedError) Error() string {
	var b strings.Builder
	b.WriteString(`{"trace":`)
	b.WriteString(strconv.Quote(strings.Join(e.trace, "->")))
	b.WriteString(`,"code":`)
	b.WriteString(strconv.Itoa(e.code))
	b.WriteString(`,"msg":`)
	b.WriteString(strconv.Quote(e.message))
	b.WriteString(`,"error":`)
	switch cause := e.cause.(type) {
	case nil:
		b.WriteString(`""`)
	case *CustomizedError:
		b.WriteString(cause.Error())
	default:
		b.WriteString(strconv.Quote(cause.Error()))
	}
	b.WriteString("}")
	return b.String()
}

// Unwrap exposes the cause so errors.Is can see domain sentinels through a CustomizedError.
func (e *CustomizedError) Unwrap() error {
	return e.cause
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first CustomizedError in err's chain.
func As(err error) (*CustomizedError, bool) {
	var ce *CustomizedError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
