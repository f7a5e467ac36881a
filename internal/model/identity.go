package model

import "strings"

const (
	// chatroomMarker 出现在 wxid 任意位置即视为群消息。
	chatroomMarker = "chatroom"
	// chatroomSuffix 只有以此结尾的 wxid 才是真正的群 ID。
	// 两个判断并不等价，部分系统账号只包含 chatroom 而没有后缀。
	chatroomSuffix = "@chatroom"
)

// Identity 由文字消息推导出的来源信息。
type Identity struct {
	IsGroup      bool
	RoomID       string
	HasRoomID    bool
	OriginatorID string
}

// IsChatroom 判断消息是否来自群（子串匹配）。
func (m TextMessage) IsChatroom() bool {
	return strings.Contains(m.WxID, chatroomMarker)
}

// RoomID 返回群 ID（后缀匹配），非群消息时 ok 为 false。
func (m TextMessage) RoomID() (roomID string, ok bool) {
	if strings.HasSuffix(m.WxID, chatroomSuffix) {
		return m.WxID, true
	}
	return "", false
}

// SenderID 返回真正发言人的 ID：群消息取 ID1，否则取 WxID。
func (m TextMessage) SenderID() string {
	if m.IsChatroom() {
		return m.ID1
	}
	return m.WxID
}

// ResolveIdentity 一次性给出群标记、群 ID 与发言人。
func ResolveIdentity(m TextMessage) Identity {
	roomID, ok := m.RoomID()
	return Identity{
		IsGroup:      m.IsChatroom(),
		RoomID:       roomID,
		HasRoomID:    ok,
		OriginatorID: m.SenderID(),
	}
}
