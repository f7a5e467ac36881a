package protocol

import (
	"context"
	"encoding/json"
	"fmt"

	"go-wxhook/internal/model"
)

const (
	// Sentinel 线上协议要求字段齐全，不适用的字段写入字面量 "null"。
	Sentinel = "null"
	// WrapperKey 请求体外层对象唯一的键。
	WrapperKey = "para"
)

// Fields 请求的可选参数，未设置的字段只在编码时才变成 Sentinel。
type Fields struct {
	roomID   *string
	wxID     *string
	content  *string
	nickname *string
	ext      *string
}

func NewFields() Fields { return Fields{} }

func (f Fields) RoomID(v string) Fields   { f.roomID = &v; return f }
func (f Fields) WxID(v string) Fields     { f.wxID = &v; return f }
func (f Fields) Content(v string) Fields  { f.content = &v; return f }
func (f Fields) Nickname(v string) Fields { f.nickname = &v; return f }
func (f Fields) Ext(v string) Fields      { f.ext = &v; return f }

// only 保留 mask 中声明的字段。
func (f Fields) only(mask Field) Fields {
	var out Fields
	if mask&FieldRoomID != 0 {
		out.roomID = f.roomID
	}
	if mask&FieldWxID != 0 {
		out.wxID = f.wxID
	}
	if mask&FieldContent != 0 {
		out.content = f.content
	}
	if mask&FieldNickname != 0 {
		out.nickname = f.nickname
	}
	if mask&FieldExt != 0 {
		out.ext = f.ext
	}
	return out
}

// Request 尚未编码的出站请求。
type Request struct {
	ID     string
	Type   model.OpType
	Fields Fields
}

// Envelope 生成线上外壳，缺省字段填入 Sentinel。
func (r Request) Envelope() model.RequestEnvelope {
	return model.RequestEnvelope{
		ID:       r.ID,
		Type:     r.Type,
		RoomID:   orSentinel(r.Fields.roomID),
		WxID:     orSentinel(r.Fields.wxID),
		Content:  orSentinel(r.Fields.content),
		Nickname: orSentinel(r.Fields.nickname),
		Ext:      orSentinel(r.Fields.ext),
	}
}

func orSentinel(v *string) string {
	if v == nil {
		return Sentinel
	}
	return *v
}

// RequestBuilder 负责为每个请求分配关联 ID。
type RequestBuilder struct {
	ids IDGenerator
}

func NewRequestBuilder(ids IDGenerator) *RequestBuilder {
	if ids == nil {
		ids = NewCounterIDGenerator()
	}
	return &RequestBuilder{ids: ids}
}

// Build 为任意操作码构造请求，字段原样透传，不做校验。
func (b *RequestBuilder) Build(ctx context.Context, op model.OpType, f Fields) (Request, error) {
	id, err := b.ids.NextID(ctx)
	if err != nil {
		return Request{}, fmt.Errorf("generate request id: %w", err)
	}
	return Request{ID: id, Type: op, Fields: f}, nil
}

// BuildOperation 按目录描述构造请求：只保留该操作用到的字段，并写入固定 content。
func (b *RequestBuilder) BuildOperation(ctx context.Context, op Operation, f Fields) (Request, error) {
	f = f.only(op.Fields)
	if op.FixedContent != "" {
		f = f.Content(op.FixedContent)
	}
	return b.Build(ctx, op.Type, f)
}

// Encode 序列化为 {"para": <envelope>}。
func Encode(r Request) ([]byte, error) {
	return json.Marshal(map[string]model.RequestEnvelope{WrapperKey: r.Envelope()})
}

// DecodeRequest 从请求体中取出外壳，供测试桩与调试使用。
func DecodeRequest(data []byte) (model.RequestEnvelope, error) {
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return model.RequestEnvelope{}, err
	}
	raw, ok := wrapper[WrapperKey]
	if !ok {
		return model.RequestEnvelope{}, fmt.Errorf("missing %q wrapper", WrapperKey)
	}
	var env model.RequestEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return model.RequestEnvelope{}, err
	}
	return env, nil
}
