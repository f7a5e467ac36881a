package model

// 以下记录只由解码产生，客户端不会构造它们发往宿主。

// PersonInfo 当前登录账号的信息。
type PersonInfo struct {
	Code string `json:"wx_code"`
	ID   string `json:"wx_id"`
	Name string `json:"wx_name"`
}

// RoomInfo 一个群及其成员 ID 列表。
type RoomInfo struct {
	RoomID  string   `json:"room_id"`
	Members []string `json:"member"`
	Address uint64   `json:"address"`
}

// ContactInfo 通讯录中的一个条目。
type ContactInfo struct {
	AvatarURL string `json:"headimg"`
	Name      string `json:"name"`
	Node      uint64 `json:"node"`
	Remark    string `json:"remarks"`
	Code      string `json:"wxcode"`
	ID        string `json:"wxid"`
}

// RoomMemberNick 群成员在指定群内的昵称。
type RoomMemberNick struct {
	Nick   string `json:"nick"`
	RoomID string `json:"roomid"`
	WxID   string `json:"wxid"`
}

// 宿主记录的字段缺一不可，缺失或为 null 时解码失败。

func (p *PersonInfo) UnmarshalJSON(data []byte) error {
	type plain PersonInfo
	return decodeStrict(data, (*plain)(p), "wx_code", "wx_id", "wx_name")
}

func (r *RoomInfo) UnmarshalJSON(data []byte) error {
	type plain RoomInfo
	return decodeStrict(data, (*plain)(r), "room_id", "member", "address")
}

func (c *ContactInfo) UnmarshalJSON(data []byte) error {
	type plain ContactInfo
	return decodeStrict(data, (*plain)(c), "headimg", "name", "node", "remarks", "wxcode", "wxid")
}

func (n *RoomMemberNick) UnmarshalJSON(data []byte) error {
	type plain RoomMemberNick
	return decodeStrict(data, (*plain)(n), "nick", "roomid", "wxid")
}
