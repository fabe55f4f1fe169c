package dto

// Niveles de aviso (equivalentes a los mensajes flash de la interfaz web).
const (
	NoticeSuccess = "success"
	NoticeWarning = "warning"
	NoticeDanger  = "danger"
)

// Notice aviso transitorio para mostrar al usuario.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	LoginURL string   `json:"login_url,omitempty"`
	Notices  []Notice `json:"notices,omitempty"`
}

// MessageResponse respuesta simple con avisos.
type MessageResponse struct {
	Message string   `json:"message"`
	Notices []Notice `json:"notices,omitempty"`
}
