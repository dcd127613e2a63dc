package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple de confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}

// ReorderRequest lista de ids en el orden deseado.
type ReorderRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

// CountResponse respuesta con la cantidad de registros afectados.
type CountResponse struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}
