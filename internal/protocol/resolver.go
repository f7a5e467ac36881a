package protocol

import (
	"fmt"

	"go-wxhook/internal/model"
)

// 消息本身没有可靠的判别字段（type 在各结构中取值重叠），
// 所以按固定顺序逐个尝试结构解码，取第一个成功的结果。
// 顺序是线上兼容的一部分：同时满足心跳与文字结构的载荷永远解析为心跳。

// shape 描述一种候选消息结构。
type shape struct {
	name   string
	decode func(rawObject) (model.DomainMessage, error)
}

var typeAliases = map[string]string{"data_type": "type"}

// 各结构的必需键，同时也是解码时唯一采用的键。
var (
	heartBeatKeys     = []string{"content", "id", "receiver", "sender", "srvid", "status", "time", "type"}
	textKeys          = []string{"content", "id", "id1", "id2", "id3", "srvid", "time", "type", "wxid"}
	pictureDetailKeys = []string{"content", "detail", "id1", "id2", "thumb"}
)

var shapes = []shape{
	{name: model.KindHeartBeat, decode: decodeHeartBeat},
	{name: model.KindText, decode: decodeText},
	{name: model.KindPicture, decode: decodePicture},
}

// ShapeOrder 返回结构尝试顺序。
func ShapeOrder() []string {
	names := make([]string, len(shapes))
	for i, s := range shapes {
		names[i] = s.name
	}
	return names
}

// ResolveMessage 把非控制文本解析为领域消息。
func ResolveMessage(text string) (model.DomainMessage, error) {
	obj, err := parseObject([]byte(text))
	if err != nil {
		return nil, &NoVariantMatchedError{Raw: text, Attempts: []error{err}}
	}
	attempts := make([]error, 0, len(shapes))
	for _, s := range shapes {
		msg, err := s.decode(obj)
		if err == nil {
			return msg, nil
		}
		attempts = append(attempts, fmt.Errorf("%s: %w", s.name, err))
	}
	return nil, &NoVariantMatchedError{Raw: text, Attempts: attempts}
}

func decodeHeartBeat(obj rawObject) (model.DomainMessage, error) {
	obj = obj.withAliases(typeAliases)
	if err := obj.require(heartBeatKeys...); err != nil {
		return nil, err
	}
	var hb model.HeartBeat
	if err := obj.into(&hb, heartBeatKeys...); err != nil {
		return nil, err
	}
	return hb, nil
}

func decodeText(obj rawObject) (model.DomainMessage, error) {
	obj = obj.withAliases(map[string]string{"data_type": "type", "wx_id": "wxid"})
	if err := obj.require(textKeys...); err != nil {
		return nil, err
	}
	var msg model.TextMessage
	if err := obj.into(&msg, textKeys...); err != nil {
		return nil, err
	}
	return msg, nil
}

func decodePicture(obj rawObject) (model.DomainMessage, error) {
	obj = obj.withAliases(typeAliases)
	if err := obj.require(heartBeatKeys...); err != nil {
		return nil, err
	}
	detail, err := parseObject(obj["content"])
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	if err := detail.require(pictureDetailKeys...); err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	var msg model.PictureMessage
	if err := obj.into(&msg, heartBeatKeys...); err != nil {
		return nil, err
	}
	if err := detail.into(&msg.Content, pictureDetailKeys...); err != nil {
		return nil, err
	}
	return msg, nil
}
