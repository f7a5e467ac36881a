package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// encoding/json 会把缺失或为 null 的字段留成零值，
// 结构匹配需要"字段齐全且类型正确"，所以先按键检查再解码。

type rawObject map[string]json.RawMessage

func parseObject(data []byte) (rawObject, error) {
	var obj rawObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, fmt.Errorf("not a json object")
	}
	return obj, nil
}

// withAliases 返回副本：规范键缺失而别名存在时，用别名的值补上。
func (o rawObject) withAliases(aliases map[string]string) rawObject {
	if len(aliases) == 0 {
		return o
	}
	out := make(rawObject, len(o))
	for k, v := range o {
		out[k] = v
	}
	for alias, canonical := range aliases {
		if _, ok := out[canonical]; ok {
			continue
		}
		if v, ok := out[alias]; ok {
			out[canonical] = v
		}
	}
	return out
}

// require 检查每个键都存在且不为 null。
func (o rawObject) require(keys ...string) error {
	for _, k := range keys {
		v, ok := o[k]
		if !ok {
			return fmt.Errorf("missing field %q", k)
		}
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return fmt.Errorf("field %q is null", k)
		}
	}
	return nil
}

// present 只检查键存在，允许 null。
func (o rawObject) present(keys ...string) error {
	for _, k := range keys {
		if _, ok := o[k]; !ok {
			return fmt.Errorf("missing field %q", k)
		}
	}
	return nil
}

// pick 返回只含 keys 的副本。
func (o rawObject) pick(keys ...string) rawObject {
	out := make(rawObject, len(keys))
	for _, k := range keys {
		if v, ok := o[k]; ok {
			out[k] = v
		}
	}
	return out
}

// into 只用 keys 解码进 v，类型不匹配时返回错误。
// encoding/json 按大小写不敏感匹配键，其他键（如 "Type"）不能覆盖已校验的字段。
func (o rawObject) into(v any, keys ...string) error {
	data, err := json.Marshal(o.pick(keys...))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
