package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const maxBodyBytes = 1 << 20

var (
	errEmptyBody    = errors.New("request body cannot be empty")
	errTrailingData = errors.New("request body must contain a single JSON object")
)

// DecodeJSONBody reads exactly one JSON value of at most maxBodyBytes into dest.
func DecodeJSONBody(r *http.Request, dest any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))

	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}

		return fmt.Errorf("invalid JSON format: %w", err)
	}

	if dec.More() {
		return errTrailingData
	}

	return nil
}
