package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fintrack-app/fintrack/cmd/cli/config"
)

// ErrLoggedOut is returned when the API rejected the stored token and the
// local session was discarded.
var ErrLoggedOut = errors.New("session expired or invalid, please login again")

// DoJSON sends a JSON request to the API and decodes the response into out
// (when out is non-nil). Non-2xx responses become errors carrying the body.
func DoJSON(method, path string, payload interface{}, out interface{}) error {
	return do(method, path, "", payload, out)
}

// DoAuthed is DoJSON with the stored bearer token attached. A 401 response
// tears the local session down before reporting ErrLoggedOut, mirroring the
// automatic logout a failed identity refresh triggers.
func DoAuthed(method, path string, payload interface{}, out interface{}) error {
	session, err := config.Load()
	if err != nil {
		return err
	}
	err = do(method, path, session.Token, payload, out)
	if errors.Is(err, errUnauthorized) {
		_ = config.Clear()
		return ErrLoggedOut
	}
	return err
}

var errUnauthorized = errors.New("unauthorized")

func do(method, path, token string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, config.APIURL()+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusUnauthorized {
		return errUnauthorized
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return err
		}
	}
	return nil
}
