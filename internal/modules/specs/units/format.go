package units

import (
	"encoding/json"
	"fmt"
)

func fmtAny(v any) string {
	switch v.(type) {
	case map[string]any, []any:
		if raw, err := json.Marshal(v); err == nil {
			return string(raw)
		}
	}
	return fmt.Sprint(v)
}
