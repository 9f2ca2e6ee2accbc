package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

// TelegramAccount holds the notifier bot token.
const TelegramAccount = "welux:telegram:bot"

func GetTelegramToken() (string, error) {
	tok, err := keyring.Get(KeyringService, TelegramAccount)
	if err == nil && strings.TrimSpace(tok) != "" {
		return tok, nil
	}
	return "", errors.New("telegram token not found (set it in keychain or via env)")
}

func SetTelegramToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("token is empty")
	}
	return keyring.Set(KeyringService, TelegramAccount, strings.TrimSpace(token))
}

func DeleteTelegramToken() error {
	err := keyring.Delete(KeyringService, TelegramAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
