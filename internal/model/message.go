package model

// DomainMessage 是推送通道上除控制帧以外的消息：心跳、文字、图片三者之一。
type DomainMessage interface {
	// MessageKind 返回稳定的消息种类名，用于日志与路由。
	MessageKind() string
	isDomainMessage()
}

const (
	KindHeartBeat = "heartbeat"
	KindText      = "text"
	KindPicture   = "picture"
)

// HeartBeat 宿主定时推送的心跳。
type HeartBeat struct {
	Content  string `json:"content"`
	ID       string `json:"id"`
	Receiver string `json:"receiver"`
	Sender   string `json:"sender"`
	SrvID    uint64 `json:"srvid"`
	Status   string `json:"status"`
	Time     string `json:"time"`
	Type     OpType `json:"type"`
}

// TextMessage 收到的文字消息。
// WxID 是重载字段：私聊时为发送者，群聊时为群 ID，真正的发送者在 ID1。
type TextMessage struct {
	Content string `json:"content"`
	ID      string `json:"id"`
	ID1     string `json:"id1"`
	ID2     string `json:"id2"`
	ID3     string `json:"id3"`
	SrvID   uint64 `json:"srvid"`
	Time    string `json:"time"`
	Type    OpType `json:"type"`
	WxID    string `json:"wxid"`
}

// PictureDetail 图片消息的内容部分。
type PictureDetail struct {
	Content   string `json:"content"`
	Detail    string `json:"detail"`
	ID1       string `json:"id1"`
	ID2       string `json:"id2"`
	Thumbnail string `json:"thumb"`
}

// PictureMessage 收到的图片消息。
type PictureMessage struct {
	Content  PictureDetail `json:"content"`
	ID       string        `json:"id"`
	Receiver string        `json:"receiver"`
	Sender   string        `json:"sender"`
	SrvID    uint64        `json:"srvid"`
	Status   string        `json:"status"`
	Time     string        `json:"time"`
	Type     OpType        `json:"type"`
}

func (HeartBeat) MessageKind() string      { return KindHeartBeat }
func (TextMessage) MessageKind() string    { return KindText }
func (PictureMessage) MessageKind() string { return KindPicture }

func (HeartBeat) isDomainMessage()      {}
func (TextMessage) isDomainMessage()    {}
func (PictureMessage) isDomainMessage() {}

// EventKind 区分推送事件的四种形态。
type EventKind int

const (
	EventPing EventKind = iota + 1
	EventPong
	EventClosed
	EventDomain
)

func (k EventKind) String() string {
	switch k {
	case EventPing:
		return "ping"
	case EventPong:
		return "pong"
	case EventClosed:
		return "closed"
	case EventDomain:
		return "domain"
	default:
		return "unknown"
	}
}

// PushEvent 每个入站帧对应一个事件，同一时刻只有一种形态有效：
// Ping/Pong 使用 Payload，Domain 使用 Message，Closed 两者皆空。
type PushEvent struct {
	Kind    EventKind
	Payload []byte
	Message DomainMessage
}

func PingEvent(payload []byte) PushEvent {
	return PushEvent{Kind: EventPing, Payload: payload}
}

func PongEvent(payload []byte) PushEvent {
	return PushEvent{Kind: EventPong, Payload: payload}
}

func ClosedEvent() PushEvent {
	return PushEvent{Kind: EventClosed}
}

func DomainEvent(msg DomainMessage) PushEvent {
	return PushEvent{Kind: EventDomain, Message: msg}
}
