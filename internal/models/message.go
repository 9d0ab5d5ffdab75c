package models

// MessageResponse é a resposta padrão de operações sem corpo de retorno.
type MessageResponse struct {
	Message string `json:"message"`
}

// PhotosResponse é a resposta do envio de fotos.
type PhotosResponse struct {
	Message string  `json:"message"`
	Data    []Photo `json:"data"`
}

// UserResponse é a resposta da criação de usuário.
type UserResponse struct {
	Message string `json:"message"`
	User    User   `json:"usuario"`
}
