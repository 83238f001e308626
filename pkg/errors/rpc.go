package errors

import (
	stderrors "errors"
	"fmt"
)

/*
RpcError represents a JSON-RPC error response.
*/
type RpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

/*
Error implements the error interface for RpcError.
*/
func (e *RpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

/*
Is matches on the error code only, so a copy made by WithMessagef still
satisfies errors.Is against the sentinel it was made from.
*/
func (e *RpcError) Is(target error) bool {
	var other *RpcError

	if !stderrors.As(target, &other) || other == nil || e == nil {
		return false
	}

	return e.Code == other.Code
}

// Convenience errors (JSON‑RPC reserved codes  -32600 .. -32000)
// Application specific codes should use other ranges.
var (
	ErrParseError     = &RpcError{Code: -32700, Message: "Parse error"}
	ErrInvalidRequest = &RpcError{Code: -32600, Message: "Invalid Request"}
	ErrMethodNotFound = &RpcError{Code: -32601, Message: "Method not found"}
	ErrInvalidParams  = &RpcError{Code: -32602, Message: "Invalid params"}
	ErrInternal       = &RpcError{Code: -32603, Message: "Internal error"}

	// A2A specific errors.
	ErrTaskNotFound                   = &RpcError{Code: -32000, Message: "Task not found"}
	ErrTaskNotCancelable              = &RpcError{Code: -32002, Message: "Task cannot be canceled"}
	ErrPushNotificationNotSupported   = &RpcError{Code: -32003, Message: "Push Notification is not supported"}
	ErrUnsupportedOperation           = &RpcError{Code: -32004, Message: "This operation is not supported"}
	ErrTaskFailed                     = &RpcError{Code: -32005, Message: "Task failed"}
	ErrPushNotificationConfigNotFound = &RpcError{Code: -32010, Message: "Push notification config not found"}
)

// WithMessagef creates a *copy* of an RpcError with a formatted message.
// It does not modify the original error variable.
func (e *RpcError) WithMessagef(format string, args ...any) *RpcError {
	newErr := *e
	newErr.Message = fmt.Sprintf(format, args...)
	return &newErr
}

/*
AsRpcError returns err as an *RpcError, wrapping anything else into
ErrInternal so it can go out on the wire.
*/
func AsRpcError(err error) *RpcError {
	if err == nil {
		return nil
	}

	var rpcErr *RpcError

	if stderrors.As(err, &rpcErr) && rpcErr != nil {
		return rpcErr
	}

	return ErrInternal.WithMessagef("%v", err)
}
