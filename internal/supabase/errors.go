package supabase

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"welux-admin/internal/backend"
)

// errorBody covers both PostgREST ({message, code, hint}) and GoTrue
// ({error, error_description} or {msg, error_code}) error shapes.
type errorBody struct {
	Message          string `json:"message"`
	Code             string `json:"code"`
	Hint             string `json:"hint"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	ErrorCode        string `json:"error_code"`
}

func decodeError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	re := &backend.RemoteError{Status: resp.StatusCode}
	var eb errorBody
	if err := json.Unmarshal(b, &eb); err == nil {
		re.Message = firstNonEmpty(eb.Message, eb.ErrorDescription, eb.Msg, eb.Error)
		re.Code = firstNonEmpty(eb.Code, eb.ErrorCode, eb.Error)
	}
	if re.Message == "" {
		re.Message = strings.TrimSpace(string(b))
	}
	if re.Message == "" {
		re.Message = http.StatusText(resp.StatusCode)
	}
	return re
}

func firstNonEmpty(xs ...string) string {
	for _, x := range xs {
		if strings.TrimSpace(x) != "" {
			return x
		}
	}
	return ""
}
