package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decodeStrict 要求 keys 全部存在且不为 null，然后只用这些键解码进 v。
// encoding/json 按大小写不敏感匹配键，未列出的键不能参与解码。
func decodeStrict(data []byte, v any, keys ...string) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj == nil {
		return fmt.Errorf("not a json object")
	}
	picked := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		raw, ok := obj[k]
		if !ok {
			return fmt.Errorf("missing field %q", k)
		}
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return fmt.Errorf("field %q is null", k)
		}
		picked[k] = raw
	}
	buf, err := json.Marshal(picked)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, v)
}
