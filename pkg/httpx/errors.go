// Package httpx holds the JSON plumbing shared by the HTTP handlers.
package httpx

import (
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusFromGRPC maps the status carried by err to an HTTP status, a stable
// error code and the message to show. Errors without a gRPC status are 500.
func StatusFromGRPC(err error) (int, string, string) {
	st, ok := status.FromError(err)
	if !ok {
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}

	switch st.Code() {
	case codes.InvalidArgument:
		return http.StatusBadRequest, "INVALID_ARGUMENT", st.Message()
	case codes.Unauthenticated:
		return http.StatusUnauthorized, "UNAUTHENTICATED", st.Message()
	case codes.PermissionDenied:
		return http.StatusForbidden, "PERMISSION_DENIED", st.Message()
	case codes.NotFound:
		return http.StatusNotFound, "NOT_FOUND", st.Message()
	case codes.FailedPrecondition:
		return http.StatusConflict, "FAILED_PRECONDITION", st.Message()
	case codes.Unavailable, codes.DeadlineExceeded:
		return http.StatusServiceUnavailable, "UNAVAILABLE", st.Message()
	default:
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}
}

// WriteError renders err as {"error": {"code", "message"}}.
func WriteError(w http.ResponseWriter, err error) {
	httpStatus, code, msg := StatusFromGRPC(err)
	WriteJSON(w, httpStatus, errorBody{Error: errorDetail{Code: code, Message: msg}})
}
