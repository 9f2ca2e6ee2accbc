package httpapi

import (
	"net/http"
	"strings"
)

type SecretsHandler struct {
	SetTelegramToken func(token string) error
}

type setTokenReq struct {
	Token string `json:"token"`
}

// SetTelegram stores the bot token in the OS keyring. An empty token
// clears it.
func (h SecretsHandler) SetTelegram(w http.ResponseWriter, r *http.Request) {
	if h.SetTelegramToken == nil {
		WriteError(w, r, http.StatusNotFound, "not_found", "no secret store")
		return
	}
	var req setTokenReq
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	if err := h.SetTelegramToken(strings.TrimSpace(req.Token)); err != nil {
		WriteError(w, r, http.StatusBadRequest, "store_failed", "failed to store token: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
