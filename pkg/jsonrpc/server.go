package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/a2a-subscribe/pkg/errors"
)

/*
HandlerFunc serves one method. The params are handed over raw so each
handler decides on its own parameter type.
*/
type HandlerFunc func(ctx context.Context, params json.RawMessage) (any, error)

/*
RPCServer routes requests to registered handlers. It knows nothing about
the transport: callers feed it a body and write back what it returns.
*/
type RPCServer struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

func NewRPCServer() *RPCServer {
	return &RPCServer{
		handlers: make(map[string]HandlerFunc),
	}
}

func (srv *RPCServer) Register(method string, handler HandlerFunc) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.handlers[method] = handler
}

/*
Handle decodes a single request or a batch and dispatches it. The returned
payload is either a Response or a []Response. Only valid requests without an
id count as notifications; when every request in the body was one there is
nothing to send back and ok is false.
*/
func (srv *RPCServer) Handle(ctx context.Context, body []byte) (payload any, ok bool) {
	body = bytes.TrimSpace(body)

	if len(body) == 0 {
		return NewErrorResponse(nil, errors.ErrInvalidRequest), true
	}

	if !json.Valid(body) {
		return NewErrorResponse(nil, errors.ErrParseError), true
	}

	if body[0] == '[' {
		var batch []json.RawMessage

		if err := json.Unmarshal(body, &batch); err != nil {
			return NewErrorResponse(nil, errors.ErrParseError), true
		}

		if len(batch) == 0 {
			return NewErrorResponse(nil, errors.ErrInvalidRequest), true
		}

		responses := make([]Response, 0, len(batch))

		for _, raw := range batch {
			if resp, reply := srv.handleOne(ctx, raw); reply {
				responses = append(responses, resp)
			}
		}

		return responses, len(responses) > 0
	}

	resp, reply := srv.handleOne(ctx, body)

	if !reply {
		return nil, false
	}

	return resp, true
}

/*
handleOne decodes and dispatches one batch element or single body. Anything
that is not a valid request object is answered with ErrInvalidRequest, id
or not.
*/
func (srv *RPCServer) handleOne(ctx context.Context, raw json.RawMessage) (Response, bool) {
	var req Request

	if len(raw) == 0 || raw[0] != '{' {
		return NewErrorResponse(nil, errors.ErrInvalidRequest), true
	}

	if err := json.Unmarshal(raw, &req); err != nil {
		return NewErrorResponse(nil, errors.ErrInvalidRequest), true
	}

	if req.JSONRPC != Version || req.Method == "" {
		return NewErrorResponse(req.ID, errors.ErrInvalidRequest), true
	}

	resp := srv.dispatch(ctx, req)

	return resp, !req.IsNotification()
}

func (srv *RPCServer) dispatch(ctx context.Context, req Request) Response {
	if req.JSONRPC != Version || req.Method == "" {
		return NewErrorResponse(req.ID, errors.ErrInvalidRequest)
	}

	srv.mu.RLock()
	handler, ok := srv.handlers[req.Method]
	srv.mu.RUnlock()

	if !ok {
		return NewErrorResponse(
			req.ID,
			errors.ErrMethodNotFound.WithMessagef("%s: %s", errors.ErrMethodNotFound.Message, req.Method),
		)
	}

	result, err := handler(ctx, req.Params)

	if err != nil {
		rpcErr := errors.AsRpcError(err)
		log.Warn("rpc call failed", "method", req.Method, "code", rpcErr.Code, "error", rpcErr.Message)
		return NewErrorResponse(req.ID, rpcErr)
	}

	return NewResult(req.ID, result)
}

/*
DecodeParams unmarshals raw params into out, mapping any failure onto
ErrInvalidParams.
*/
func DecodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return errors.ErrInvalidParams.WithMessagef("missing params")
	}

	if err := json.Unmarshal(params, out); err != nil {
		return errors.ErrInvalidParams.WithMessagef("failed to unmarshal params: %v", err)
	}

	return nil
}
