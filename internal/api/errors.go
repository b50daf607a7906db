package api

import "fmt"

// APIError is a structured rejection from the exchange: the request was
// understood and refused, with a numeric code and a message.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("exchange error [%d]: %s", e.Code, e.Message)
}

// RequestError is a transport-level failure: the request never produced a
// structured exchange response (network failure, timeout, undecodable body).
type RequestError struct {
	Reason string
}

func (e *RequestError) Error() string {
	return "request failed: " + e.Reason
}
