package room

import "toes-server/pkg/toes"

// Response is a message sent to a connected client
type Response struct {
	Key   string      `json:"key"`
	Value string      `json:"value,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

func newErrorResponse(err error) *Response {
	return &Response{
		Key:   "error",
		Value: err.Error(),
	}
}

func newViewResponse(view toes.PlayerView) *Response {
	return &Response{
		Key:  "view",
		Data: view,
	}
}

func newLogResponse(messages []*LogMessage) *Response {
	return &Response{
		Key:  "log",
		Data: messages,
	}
}
