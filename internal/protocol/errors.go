package protocol

import (
	"errors"
	"fmt"
)

// 本包不做任何重试或吞错，所有错误都带着原始文本返回给调用方。
// 调用方用 errors.As 取出具体类型：
//
//	var ce *protocol.ClassifyError
//	if errors.As(err, &ce) { log(ce.Raw) }

// TransportError 连接或 IO 失败。
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError 回复外壳与期望结构不符，Raw 为原始回复。
type DecodeError struct {
	Raw string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v: %s", e.Err, e.Raw)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// InnerDecodeError 二次编码的 content 字符串无法解析，Raw 为该内层字符串。
type InnerDecodeError struct {
	Raw string
	Err error
}

func (e *InnerDecodeError) Error() string {
	return fmt.Sprintf("decode inner content: %v: %s", e.Err, e.Raw)
}

func (e *InnerDecodeError) Unwrap() error { return e.Err }

// NoVariantMatchedError 文本不符合任何已知消息结构。
type NoVariantMatchedError struct {
	Raw      string
	Attempts []error // 按优先级记录每个结构的失败原因
}

func (e *NoVariantMatchedError) Error() string {
	return fmt.Sprintf("no message variant matched: %s", e.Raw)
}

func (e *NoVariantMatchedError) Unwrap() []error { return e.Attempts }

// ClassifyError 推送文本帧无法归类，Raw 必须是未经处理的原文。
type ClassifyError struct {
	Raw string
	Err error
}

func (e *ClassifyError) Error() string {
	return fmt.Sprintf("cant deserialize msg:\n%s", e.Raw)
}

func (e *ClassifyError) Unwrap() error { return e.Err }

// UnsupportedFrameError 出现协议未定义的帧类型，属于完整性错误。
type UnsupportedFrameError struct {
	FrameType int
}

func (e *UnsupportedFrameError) Error() string {
	return fmt.Sprintf("unsupported frame type %d", e.FrameType)
}

// OperationFailedError 发送文字的回复里没有成功标记，Reply 为完整回复。
type OperationFailedError struct {
	Op    string
	Reply string
}

func (e *OperationFailedError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Op, e.Reply)
}

// ErrUnknownOperation 目录中不存在的操作。
var ErrUnknownOperation = errors.New("unknown operation")
