package handlers

import (
	"net/http"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/example/anime-catalog/internal/platform/api"
)

// writeServiceError maps a service failure onto the JSON error envelope
// using the status the error carries.
func writeServiceError(w http.ResponseWriter, requestID string, err error) {
	st, ok := status.FromError(err)
	if !ok {
		api.Internal(w, requestID)
		return
	}

	code := "INTERNAL"
	var details map[string]any
	for _, d := range st.Details() {
		if v, ok := d.(*errdetails.ErrorInfo); ok {
			if v.GetReason() != "" {
				code = v.GetReason()
			}
			if kind := v.GetMetadata()["kind"]; kind != "" {
				details = map[string]any{"kind": kind}
			}
		}
	}

	switch st.Code() {
	case codes.NotFound:
		api.NotFound(w, code, st.Message(), requestID)
	case codes.ResourceExhausted:
		api.RateLimited(w, code, st.Message(), requestID, details)
	case codes.Unavailable:
		api.BadGateway(w, code, st.Message(), requestID, details)
	default:
		api.Internal(w, requestID)
	}
}
