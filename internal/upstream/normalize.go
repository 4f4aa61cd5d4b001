package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The backend is inconsistent about response shapes: the same endpoint may
// return a raw array, a wrapper object with a named collection field, or a
// JSON-encoded string containing either. Normalization tries the accepted
// shapes in that declared order and fails with a typed parse error for
// anything else instead of silently coercing.

type listMeta struct {
	Total    int
	HasTotal bool
}

func decodeList[T any](body []byte, fields ...string) ([]T, listMeta, error) {
	return decodeListDepth[T](body, fields, 0)
}

func decodeListDepth[T any](body []byte, fields []string, depth int) ([]T, listMeta, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, listMeta{}, newParseError(fmt.Errorf("empty response body"))
	}

	switch body[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, listMeta{}, newParseError(err)
		}
		return items, listMeta{}, nil

	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil, listMeta{}, newParseError(err)
		}

		for _, field := range fields {
			raw, ok := wrapper[field]
			if !ok {
				continue
			}

			var items []T
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, listMeta{}, newParseError(err)
			}

			return items, decodeListMeta(wrapper), nil
		}

		return nil, listMeta{}, newParseError(fmt.Errorf("wrapper object has none of the fields %v", fields))

	case '"':
		if depth > 0 {
			return nil, listMeta{}, newParseError(fmt.Errorf("nested string-encoded body"))
		}

		var inner string
		if err := json.Unmarshal(body, &inner); err != nil {
			return nil, listMeta{}, newParseError(err)
		}

		return decodeListDepth[T]([]byte(inner), fields, depth+1)
	}

	return nil, listMeta{}, newParseError(fmt.Errorf("unexpected leading byte %q", body[0]))
}

func decodeListMeta(wrapper map[string]json.RawMessage) listMeta {
	for _, field := range []string{"total", "count"} {
		raw, ok := wrapper[field]
		if !ok {
			continue
		}

		var total int
		if err := json.Unmarshal(raw, &total); err == nil {
			return listMeta{Total: total, HasTotal: true}
		}
	}

	return listMeta{}
}

func decodeObject[T any](body []byte, fields ...string) (T, error) {
	return decodeObjectDepth[T](body, fields, 0)
}

func decodeObjectDepth[T any](body []byte, fields []string, depth int) (T, error) {
	var zero T

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return zero, newParseError(fmt.Errorf("empty response body"))
	}

	switch body[0] {
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return zero, newParseError(err)
		}

		for _, field := range fields {
			raw, ok := wrapper[field]
			if !ok {
				continue
			}

			var item T
			if err := json.Unmarshal(raw, &item); err != nil {
				return zero, newParseError(err)
			}

			return item, nil
		}

		var item T
		if err := json.Unmarshal(body, &item); err != nil {
			return zero, newParseError(err)
		}

		return item, nil

	case '"':
		if depth > 0 {
			return zero, newParseError(fmt.Errorf("nested string-encoded body"))
		}

		var inner string
		if err := json.Unmarshal(body, &inner); err != nil {
			return zero, newParseError(err)
		}

		return decodeObjectDepth[T]([]byte(inner), fields, depth+1)
	}

	return zero, newParseError(fmt.Errorf("unexpected leading byte %q", body[0]))
}

// decodeToken extracts the opaque success token mutations return. The token
// is never interpreted, so a bare non-JSON body is accepted as-is.
func decodeToken(body []byte) string {
	body = bytes.TrimSpace(body)

	var token string
	if err := json.Unmarshal(body, &token); err == nil {
		return token
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err == nil {
		for _, field := range []string{"data", "message", "token"} {
			raw, ok := wrapper[field]
			if !ok {
				continue
			}
			if err := json.Unmarshal(raw, &token); err == nil {
				return token
			}
		}
	}

	return string(body)
}
