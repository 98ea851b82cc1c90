// Package context carries per-request metadata from the HTTP edge into the service
// and repository layers, where it ends up on log lines.
package context

import "context"

type ContextKey string

var RequestInfoKey = ContextKey("X-Request-Info")

// RequestInfo describes the inbound request. Route is the matched route template,
// "/api/gardens/:id" rather than the concrete path.
type RequestInfo struct {
	RequestID string
	Method    string
	Route     string
	Path      string
	RemoteIP  string
	// empty for same-origin calls
	Origin string
}

func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, RequestInfoKey, info)
}

// GetRequestInfo returns the stored metadata, or the zero value outside a request.
func GetRequestInfo(ctx context.Context) RequestInfo {
	info, _ := ctx.Value(RequestInfoKey).(RequestInfo)
	return info
}

func GetRequestID(ctx context.Context) string {
	return GetRequestInfo(ctx).RequestID
}

// Fields flattens the non-empty values for structured logging.
func (i RequestInfo) Fields() map[string]interface{} {
	fields := make(map[string]interface{}, 6)
	add := func(key, value string) {
		if value != "" {
			fields[key] = value
		}
	}
	add("request_id", i.RequestID)
	add("method", i.Method)
	add("route", i.Route)
	add("path", i.Path)
	add("remote_ip", i.RemoteIP)
	add("origin", i.Origin)
	return fields
}
