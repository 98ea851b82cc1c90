package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"
)

// BindOptions controls how request bodies are decoded.
type BindOptions struct {
	// Strict rejects fields the target type does not declare.
	Strict bool
	// Allowlist names top-level fields that are dropped before decoding, so clients
	// may keep sending them under strict decoding.
	Allowlist []string
}

// BindRequest decodes the JSON body into T and validates it. Every failure is a 400.
func BindRequest[T any](c echo.Context, opts BindOptions) (T, error) {
	var v T

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return v, httperror.WrapError(http.StatusBadRequest, fmt.Errorf("failed to read request body: %w", err))
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return v, httperror.NewHTTPError(http.StatusBadRequest, "request body is required")
	}

	body, err = dropAllowlisted(body, opts.Allowlist)
	if err != nil {
		return v, httperror.WrapError(http.StatusBadRequest, err)
	}

	if err := decodeJSON(body, &v, opts.Strict); err != nil {
		return v, httperror.WrapError(http.StatusBadRequest, err)
	}

	if v, err := Validate(v); err != nil {
		return v, httperror.WrapError(http.StatusBadRequest, err)
	}

	return v, nil
}

func decodeJSON(body []byte, target any, strict bool) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	if strict {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(target); err != nil {
		return describeDecodeError(err)
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

func dropAllowlisted(body []byte, allowlist []string) ([]byte, error) {
	fields := make([]string, 0, len(allowlist))
	for _, f := range allowlist {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	if len(fields) == 0 {
		return body, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, describeDecodeError(err)
	}

	removed := false
	for _, f := range fields {
		if _, ok := obj[f]; ok {
			delete(obj, f)
			removed = true
		}
	}
	if !removed {
		return body, nil
	}
	return json.Marshal(obj)
}

func describeDecodeError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Errorf("malformed JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return fmt.Errorf("request body must be a JSON %s, got %s", typeErr.Type, typeErr.Value)
		}
		return fmt.Errorf("field '%s' must be %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("malformed JSON: unexpected end of input")
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return fmt.Errorf("unknown field %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
	default:
		return err
	}
}
