package protocol

import (
	"github.com/gorilla/websocket"

	"go-wxhook/internal/model"
)

// PongToken 宿主在文本通道里发送的保活回应，不是 JSON。
const PongToken = "pong"

// Frame 推送通道上的一个原始帧，Type 取 websocket.*Message 常量。
type Frame struct {
	Type int
	Data []byte
}

// Classify 把一个原始帧归类为控制事件或领域消息。
func Classify(f Frame) (model.PushEvent, error) {
	switch f.Type {
	case websocket.TextMessage:
		text := string(f.Data)
		// 字面量 pong 优先于任何 JSON 解析
		if text == PongToken {
			return model.PongEvent([]byte{}), nil
		}
		msg, err := ResolveMessage(text)
		if err != nil {
			return model.PushEvent{}, &ClassifyError{Raw: text, Err: err}
		}
		return model.DomainEvent(msg), nil
	case websocket.CloseMessage:
		return model.ClosedEvent(), nil
	case websocket.PingMessage:
		return model.PingEvent(f.Data), nil
	case websocket.PongMessage:
		return model.PongEvent(f.Data), nil
	default:
		return model.PushEvent{}, &UnsupportedFrameError{FrameType: f.Type}
	}
}
