package client

import (
	"encoding/json"
	"fmt"
	"strings"
)

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type fieldIssue struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// decodeError turns a non-2xx response into a typed error. Both FastAPI
// shapes are understood: {"detail": "..."} and
// {"detail": [{"loc": [...], "msg": "..."}]}.
func decodeError(status int, raw []byte) error {
	detail, fields := parseDetail(raw)
	return NewResponseError(status, detail, fields)
}

func parseDetail(raw []byte) (string, map[string]string) {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return strings.TrimSpace(string(raw)), nil
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s, nil
	}

	var issues []fieldIssue
	if err := json.Unmarshal(body.Detail, &issues); err != nil {
		return string(body.Detail), nil
	}

	fields := make(map[string]string, len(issues))
	var loose []string
	for _, is := range issues {
		if len(is.Loc) == 0 {
			loose = append(loose, is.Msg)
			continue
		}
		key := fmt.Sprint(is.Loc[len(is.Loc)-1])
		if prev, ok := fields[key]; ok {
			fields[key] = prev + "; " + is.Msg
			continue
		}
		fields[key] = is.Msg
	}
	if len(fields) == 0 {
		fields = nil
	}
	return strings.Join(loose, "; "), fields
}
