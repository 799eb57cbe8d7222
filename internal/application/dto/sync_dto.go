package dto

// ErrorResponse corpo de erro HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusResponse resposta de /sync/status.
type StatusResponse struct {
	Status           string `json:"status"`
	BlingAutenticado bool   `json:"bling_autenticado"`
}

// CallbackResponse resposta de /bling/callback após a troca do code.
type CallbackResponse struct {
	Message   string `json:"message"`
	ExpiresIn int64  `json:"expires_in"`
}
