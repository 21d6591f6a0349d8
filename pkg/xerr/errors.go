package xerr

import "fmt"

// Engine error codes. Carried end to end and mapped to gRPC status codes
// at the transport layer.
const (
	OK                 = 200
	RequestParamsError = 400
	RecordNotFound     = 404
	ServerCommonError  = 500
	StorageError       = 501
)

type CodeError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("ErrCode:%d, Msg:%s", e.Code, e.Msg)
}

func New(code int, msg string) error {
	return &CodeError{Code: code, Msg: msg}
}

func Newf(code int, format string, args ...any) error {
	return &CodeError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func NewErrCode(code int) error {
	return &CodeError{Code: code, Msg: MapErrMsg(code)}
}

func MapErrMsg(code int) string {
	switch code {
	case RequestParamsError:
		return "invalid request parameters"
	case RecordNotFound:
		return "record not found"
	case StorageError:
		return "storage unavailable"
	case ServerCommonError:
		return "internal server error"
	default:
		return "unknown error"
	}
}

// Code extracts the error code, defaulting to ServerCommonError for
// errors produced outside this package.
func Code(err error) int {
	if err == nil {
		return OK
	}
	if ce, ok := err.(*CodeError); ok {
		return ce.Code
	}
	return ServerCommonError
}
