package security

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/noah-isme/ryokan-quote/internal/common"
)

// CodePayloadTooLarge is the error code returned with HTTP 413.
const CodePayloadTooLarge = "PAYLOAD_TOO_LARGE"

// BodyLimit caps the size of a quote request body. A zero Max disables it.
type BodyLimit struct {
	Max int64
}

// Middleware buffers the body up to Max bytes and answers 413 past that, so the
// handler decoding JSON never sees a truncated payload.
func (b BodyLimit) Middleware(next http.Handler) http.Handler {
	if b.Max <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil {
			next.ServeHTTP(w, r)
			return
		}
		if r.ContentLength > b.Max {
			b.reject(w)
			return
		}

		buf, err := io.ReadAll(http.MaxBytesReader(w, r.Body, b.Max))
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			b.reject(w)
			return
		case err != nil:
			common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid request body", nil)
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(buf))
		r.ContentLength = int64(len(buf))
		next.ServeHTTP(w, r)
	})
}

func (b BodyLimit) reject(w http.ResponseWriter) {
	common.JSONError(w, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "request entity too large",
		map[string]int64{"maxBytes": b.Max})
}
