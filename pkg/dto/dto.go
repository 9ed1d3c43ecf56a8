package dto

// Formatter mirrors the available Formatters of logrus for configuration purposes.
type Formatter string

const (
	FormatterText = "TextFormatter"
	FormatterJSON = "JSONFormatter"
)

// ContextKey is the type for keys in a request context that is used for passing data to the next handler.
type ContextKey string

// Keys to reference information (for logging or monitoring).
const (
	KeySessionID = "session_id"
	KeyEntityID  = "entity_id"
)

// LoggedContextKeys defines which keys will be logged if a context is passed to logrus. See ContextHook.
var LoggedContextKeys = []ContextKey{KeySessionID, KeyEntityID}

// DialogRequestType is the type of prompts sent to a remote dialog client.
type DialogRequestType string

const (
	DialogInput   DialogRequestType = "input"
	DialogMessage DialogRequestType = "message"
	DialogChoose  DialogRequestType = "choose"
)

// DialogRequest is sent to the client of a websocket dialog for every prompt.
// Only DialogInput and DialogChoose requests expect a DialogResponse.
type DialogRequest struct {
	Type    DialogRequestType `json:"type"`
	Title   string            `json:"title"`
	Message string            `json:"message"`
	Level   string            `json:"level,omitempty"`
	Options []string          `json:"options,omitempty"`
}

// DialogResponse is the answer of the client of a websocket dialog.
// Cancelled mirrors closing the prompt without answering.
type DialogResponse struct {
	Answer    string `json:"answer"`
	Choice    int    `json:"choice"`
	Cancelled bool   `json:"cancelled"`
}

// RegisterResponse is the response of a successful registration.
type RegisterResponse struct {
	ID string `json:"id"`
}

// ClientError is the response interface if the request is not valid.
type ClientError struct {
	Message string `json:"message"`
}

// InternalServerError is the response interface that is returned when an error occurs.
type InternalServerError struct {
	Message   string    `json:"message"`
	ErrorCode ErrorCode `json:"errorCode"`
}

// ErrorCode is the type for error codes of internal server errors.
type ErrorCode string

const (
	ErrorUnknown ErrorCode = "UNKNOWN"
)
