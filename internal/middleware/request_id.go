// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

// Package middleware provides HTTP middleware for the service.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/meetwise/meetwise-meeting-service/internal/logging"
	"github.com/meetwise/meetwise-meeting-service/pkg/constants"
)

// RequestIDMiddleware tags every request with an id so a webhook delivery or
// voice call can be traced through the request-scoped logs. The call
// platform's retries carry their own X-REQUEST-ID; when present it is kept so
// redeliveries of the same event correlate across attempts. The id is echoed
// back in the response header.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(constants.RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			ctx := context.WithValue(r.Context(), constants.RequestIDContextID, requestID)
			ctx = logging.AppendCtx(ctx, slog.String("request_id", requestID))

			w.Header().Set(constants.RequestIDHeader, requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
