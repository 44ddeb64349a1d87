package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// listBody decodes either a bare JSON array or an object wrapping the array
// under a well-known key.
type listBody[T any] []T

var listKeys = []string{"data", "items", "results"}

func (l *listBody[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*l = listBody[T]{}
		return nil
	case b[0] == '[':
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*l = items
		return nil
	case b[0] == '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(b, &wrapper); err != nil {
			return err
		}
		for _, k := range listKeys {
			if raw, ok := wrapper[k]; ok {
				var items []T
				if err := json.Unmarshal(raw, &items); err != nil {
					return err
				}
				*l = items
				return nil
			}
		}
		return fmt.Errorf("apiclient: object has no list field")
	default:
		return fmt.Errorf("apiclient: expected list, got %q", b[:1])
	}
}

func getList[T any](ctx context.Context, c *Client, route string) ([]T, error) {
	var out listBody[T]
	if err := c.get(ctx, route, &out); err != nil {
		return nil, err
	}
	return []T(out), nil
}
