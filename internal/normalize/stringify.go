package normalize

import (
	"encoding/json"
	"strconv"

	"github.com/jonathan/jobscout/internal/fieldpath"
)

func field(listing map[string]any, path string) string {
	v, ok := fieldpath.Get(listing, path)
	if !ok {
		return ""
	}
	return Stringify(v)
}

// Stringify renders a decoded JSON value as text. nil becomes "", scalars use
// their natural form and containers are re-encoded as JSON.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
