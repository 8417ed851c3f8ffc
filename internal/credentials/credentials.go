// Package credentials loads the API credentials record from an env-style file
// once per process. Values already present in the process environment win over
// the file.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/vhallberg/viska/internal/platform"
)

const (
	DefaultAPIBase   = "https://api.groq.com/openai/v1"
	DefaultSTTModel  = "whisper-large-v3"
	DefaultChatModel = "llama-3.1-8b-instant"
)

var ErrMissingAPIKey = errors.New("no API key configured; run `viska setup` or set VISKA_API_KEY")

type Credentials struct {
	APIKey    string
	APIBase   string
	STTModel  string
	ChatModel string
}

// Load reads the credentials file at path (if present) merged with the
// process environment.
func Load(path string) (Credentials, error) {
	fileValues := map[string]string{}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			values, err := godotenv.Read(path)
			if err != nil {
				return Credentials{}, fmt.Errorf("parse credentials file %s: %w", path, err)
			}
			fileValues = values
		}
	}

	lookup := func(keys ...string) string {
		for _, key := range keys {
			if v := strings.TrimSpace(os.Getenv(key)); v != "" {
				return v
			}
		}
		for _, key := range keys {
			if v := strings.TrimSpace(fileValues[key]); v != "" {
				return v
			}
		}
		return ""
	}

	creds := Credentials{
		APIKey:    lookup("VISKA_API_KEY", "GROQ_API_KEY", "OPENAI_API_KEY"),
		APIBase:   lookup("VISKA_API_BASE"),
		STTModel:  lookup("VISKA_STT_MODEL"),
		ChatModel: lookup("VISKA_CHAT_MODEL"),
	}

	if creds.APIBase == "" {
		creds.APIBase = DefaultAPIBase
	}
	if creds.STTModel == "" {
		creds.STTModel = DefaultSTTModel
	}
	if creds.ChatModel == "" {
		creds.ChatModel = DefaultChatModel
	}

	if creds.APIKey == "" {
		return Credentials{}, ErrMissingAPIKey
	}

	return creds, nil
}

// Save writes the credentials file at path, overwriting any previous record.
func Save(path string, creds Credentials) error {
	values := map[string]string{
		"VISKA_API_KEY": creds.APIKey,
	}
	if creds.APIBase != "" && creds.APIBase != DefaultAPIBase {
		values["VISKA_API_BASE"] = creds.APIBase
	}
	if creds.STTModel != "" && creds.STTModel != DefaultSTTModel {
		values["VISKA_STT_MODEL"] = creds.STTModel
	}
	if creds.ChatModel != "" && creds.ChatModel != DefaultChatModel {
		values["VISKA_CHAT_MODEL"] = creds.ChatModel
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create credentials directory: %w", err)
	}
	if err := godotenv.Write(values, path); err != nil {
		return fmt.Errorf("write credentials file: %w", err)
	}
	return nil
}

// DefaultPath resolves the fixed per-user credentials location.
func DefaultPath() (string, error) {
	return platform.CredentialsPath()
}
