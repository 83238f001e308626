package jsonrpc

import (
	"encoding/json"

	"github.com/theapemachine/a2a-subscribe/pkg/errors"
)

const Version = "2.0"

/*
Request is a single JSON-RPC 2.0 call. The id is kept raw so string, number
and null ids round-trip untouched; a request without an id is a
notification.
*/
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

/*
Response carries either a result or an error for the request with the same
id.
*/
type Response struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      json.RawMessage  `json:"id"`
	Result  any              `json:"result,omitempty"`
	Error   *errors.RpcError `json:"error,omitempty"`
}

/*
NewRequest marshals params and wraps them in a request with the given id.
*/
func NewRequest(id any, method string, params any) (Request, error) {
	req := Request{
		JSONRPC: Version,
		Method:  method,
	}

	var err error

	if id != nil {
		if req.ID, err = json.Marshal(id); err != nil {
			return req, err
		}
	}

	if params != nil {
		if req.Params, err = json.Marshal(params); err != nil {
			return req, err
		}
	}

	return req, nil
}

func (req Request) IsNotification() bool {
	return len(req.ID) == 0
}

func NewResult(id json.RawMessage, result any) Response {
	return Response{
		JSONRPC: Version,
		ID:      nullID(id),
		Result:  result,
	}
}

func NewErrorResponse(id json.RawMessage, err *errors.RpcError) Response {
	return Response{
		JSONRPC: Version,
		ID:      nullID(id),
		Error:   err,
	}
}

/*
DecodeResult copies the result of a response into out. Results decoded from
the wire arrive as generic maps, so the value is marshalled once more and
unmarshalled into the concrete type.
*/
func (resp Response) DecodeResult(out any) error {
	if resp.Error != nil {
		return resp.Error
	}

	if out == nil || resp.Result == nil {
		return nil
	}

	buf, err := json.Marshal(resp.Result)

	if err != nil {
		return err
	}

	return json.Unmarshal(buf, out)
}

func nullID(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return json.RawMessage("null")
	}

	return id
}
