package protocol

import (
	"encoding/json"

	"go-wxhook/internal/model"
)

// DecodeEnvelope 解析完整的回复外壳（无外层包装），三个字段缺一不可且不为 null。
// 只有不透明回复（T 为 json.RawMessage）的 content 允许为 null。
func DecodeEnvelope[T any](raw []byte) (model.ResponseEnvelope[T], error) {
	var env model.ResponseEnvelope[T]
	obj, err := parseObject(raw)
	if err == nil {
		if opaque[T]() {
			err = obj.present("content")
		} else {
			err = obj.require("content")
		}
	}
	if err == nil {
		err = obj.require("id", "type")
	}
	if err == nil {
		err = obj.into(&env, "content", "id", "type")
	}
	if err != nil {
		return env, &DecodeError{Raw: string(raw), Err: err}
	}
	return env, nil
}

func opaque[T any]() bool {
	var zero T
	_, ok := any(zero).(json.RawMessage)
	return ok
}

// Decode 解析回复并返回 content。
func Decode[T any](raw []byte) (T, error) {
	env, err := DecodeEnvelope[T](raw)
	if err != nil {
		var zero T
		return zero, err
	}
	return env.Content, nil
}

// DecodeNested 处理 content 被二次编码成字符串的回复：
// 先按字符串取出 content，再把它解析为 T。
func DecodeNested[T any](raw []byte) (T, error) {
	var out T
	inner, err := Decode[string](raw)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(inner), &out); err != nil {
		return out, &InnerDecodeError{Raw: inner, Err: err}
	}
	return out, nil
}
