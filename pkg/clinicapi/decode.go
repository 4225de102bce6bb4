package clinicapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nirmalhealthcare/clinic-console/internal/models"
	apperrors "github.com/nirmalhealthcare/clinic-console/pkg/errors"
)

// List is a decoded list payload. Pagination is zero when the backend sent a
// bare array.
type List[T any] struct {
	Items      []T
	Pagination models.Pagination
}

// decodeData unmarshals the data block of env into T.
func decodeData[T any](env *models.RawEnvelope) (models.Envelope[T], error) {
	out := models.Envelope[T]{Success: env.Success, Message: env.Message}
	if isEmptyJSON(env.Data) {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out.Data); err != nil {
		return out, apperrors.NewUnexpectedError(fmt.Errorf("decode response data: %w", err))
	}
	return out, nil
}

// decodeList accepts data as a bare array or as an object carrying the array
// under key (or "items"/"data") next to a pagination block.
func decodeList[T any](env *models.RawEnvelope, key string) (models.Envelope[List[T]], error) {
	out := models.Envelope[List[T]]{Success: env.Success, Message: env.Message}
	if env.Pagination != nil {
		out.Data.Pagination = *env.Pagination
	}

	data := bytes.TrimSpace(env.Data)
	if isEmptyJSON(data) {
		out.Data.Items = []T{}
		return out, nil
	}

	if data[0] == '[' {
		if err := json.Unmarshal(data, &out.Data.Items); err != nil {
			return out, apperrors.NewUnexpectedError(fmt.Errorf("decode %s list: %w", key, err))
		}
		return out, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return out, apperrors.NewUnexpectedError(fmt.Errorf("decode %s list: %w", key, err))
	}

	for _, k := range []string{key, "items", "data"} {
		raw, ok := obj[k]
		if !ok || isEmptyJSON(raw) {
			continue
		}
		if err := json.Unmarshal(raw, &out.Data.Items); err != nil {
			return out, apperrors.NewUnexpectedError(fmt.Errorf("decode %s list: %w", key, err))
		}
		break
	}
	if out.Data.Items == nil {
		out.Data.Items = []T{}
	}

	if raw, ok := obj["pagination"]; ok && !isEmptyJSON(raw) {
		if err := json.Unmarshal(raw, &out.Data.Pagination); err != nil {
			return out, apperrors.NewUnexpectedError(fmt.Errorf("decode %s pagination: %w", key, err))
		}
	}
	return out, nil
}

func isEmptyJSON(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
