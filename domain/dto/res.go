package dto

// Res is the uniform response envelope returned by every endpoint
type Res struct {
	Status  int         `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}

// OK wraps data in a success envelope
func OK(status int, data interface{}, message string) Res {
	return Res{Status: status, Data: data, Message: message}
}

// Fail wraps an error condition in the envelope
func Fail(status int, message string) Res {
	return Res{Status: status, Message: message}
}
