package shared

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Code identifies a failure class carried on error.raised envelopes.
type Code string

const (
	CodeProtocol     Code = "E_PROTOCOL"
	CodePipeline     Code = "E_PIPELINE"
	CodePipelineBusy Code = "E_PIPELINE_BUSY"
	CodeTransport    Code = "E_TRANSPORT"
	CodeEngineInit   Code = "E_ENGINE_INIT"
)

var ErrLoopClosed = errors.New("session loop closed")

// GatewayError is the error type that crosses the protocol boundary. Every
// dispatcher- or pipeline-level failure surfaces as exactly one of these,
// rendered as an error.raised envelope; none of them terminate the socket.
type GatewayError struct {
	Code        Code
	Message     string
	Details     map[string]any
	Recoverable bool
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *GatewayError) WithDetails(details map[string]any) *GatewayError {
	e.Details = details
	return e
}

func Protocol(message string) *GatewayError {
	return &GatewayError{Code: CodeProtocol, Message: message, Recoverable: true}
}

func Pipeline(message string) *GatewayError {
	return &GatewayError{Code: CodePipeline, Message: message, Recoverable: true}
}

func PipelineBusy(message string) *GatewayError {
	return &GatewayError{Code: CodePipelineBusy, Message: message, Recoverable: true}
}

func EngineInit(message string) *GatewayError {
	return &GatewayError{Code: CodeEngineInit, Message: message, Recoverable: false}
}

// AsGatewayError unwraps err into a *GatewayError, or wraps it as a
// recoverable pipeline failure when it is something else.
func AsGatewayError(err error) *GatewayError {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge
	}
	return Pipeline(err.Error())
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func NewAPIError(code, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

func (e *APIError) ToHTTP(status int) *echo.HTTPError {
	return echo.NewHTTPError(status, e)
}

func BadRequest(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusBadRequest)
}

func NotFound(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusNotFound)
}

func InternalError(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusInternalServerError)
}
