package middlewares

import (
	"errors"
	"net/http"
	"smarthealth-service/internal/pkg/constvars"
	"smarthealth-service/internal/pkg/utils"
	"strings"

	"go.uber.org/zap"
)

// ErrorHandler recovers panics with a channel-appropriate body: the USSD and
// SMS gateways expect a plain-text END screen, the voice provider expects a
// call-control document, and everything else gets the JSON error envelope.
func (m *Middlewares) ErrorHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				var err error
				switch x := rec.(type) {
				case string:
					err = errors.New(x)
				case error:
					err = x
				default:
					err = errors.New("unknown error")
				}

				m.Log.Error("panic recovered",
					zap.Any(constvars.LoggingRequestIDKey, r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY)),
					zap.String(constvars.LoggingEndpointKey, r.URL.Path),
					zap.Error(err),
				)

				switch {
				case strings.Contains(r.URL.Path, "/ussd") || strings.Contains(r.URL.Path, "/sms"):
					utils.WriteUSSDResponse(w, "END "+constvars.ErrClientServiceUnavailable)
				case strings.Contains(r.URL.Path, "/voice"):
					utils.WriteCallControlResponse(w, constvars.MIMETextXML,
						`<?xml version="1.0" encoding="UTF-8"?><Response><Say>`+constvars.ErrClientServiceUnavailable+`</Say></Response>`)
				default:
					utils.BuildErrorResponse(m.Log, w, err)
				}
			}
		}()
		next.ServeHTTP(w, r)
	})
}
