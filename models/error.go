package models

// ErrorMessageResponse is the JSON body every failed request carries. Written
// only through config.ErrorStatus so error responses stay uniform across
// handlers.
type ErrorMessageResponse struct {
	Response MessageError
}

// MessageError pairs the operator-facing message with the underlying error
// text
type MessageError struct {
	Message string
	Error   string
}
