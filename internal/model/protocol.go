package model

import (
	"encoding/json"
	"fmt"
)

// OpType 是与宿主约定的数字操作码，既用于请求也出现在推送消息中。
// 取值是线上协议的一部分，不能重新编号。
type OpType int

const (
	OpRecvTxtMsg         OpType = 1    // 收到文字消息
	OpRecvPicMsg         OpType = 3    // 收到图片消息
	OpPicMsg             OpType = 500  // 发送图片
	OpAtMsg              OpType = 550  // 群内 @ 成员
	OpTxtMsg             OpType = 555  // 发送文字
	OpUserList           OpType = 5000 // 获取通讯录
	OpGetUserListSuccess OpType = 5001
	OpGetUserListFail    OpType = 5002
	OpAttachFile         OpType = 5003 // 发送本地文件
	OpHeartBeat          OpType = 5005 // 心跳
	OpChatroomMember     OpType = 5010 // 群成员列表
	OpChatroomMemberNick OpType = 5020 // 群成员昵称
	OpDebugSwitch        OpType = 6000
	OpPersonalInfo       OpType = 6500 // 本人信息
	OpPersonalDetail     OpType = 6550
)

var opNames = map[OpType]string{
	OpRecvTxtMsg:         "recv_txt_msg",
	OpRecvPicMsg:         "recv_pic_msg",
	OpPicMsg:             "pic_msg",
	OpAtMsg:              "at_msg",
	OpTxtMsg:             "txt_msg",
	OpUserList:           "user_list",
	OpGetUserListSuccess: "get_user_list_success",
	OpGetUserListFail:    "get_user_list_fail",
	OpAttachFile:         "attach_file",
	OpHeartBeat:          "heart_beat",
	OpChatroomMember:     "chatroom_member",
	OpChatroomMemberNick: "chatroom_member_nick",
	OpDebugSwitch:        "debug_switch",
	OpPersonalInfo:       "personal_info",
	OpPersonalDetail:     "personal_detail",
}

// AllOpTypes 按数值升序返回全部已知操作码。
func AllOpTypes() []OpType {
	return []OpType{
		OpRecvTxtMsg, OpRecvPicMsg, OpPicMsg, OpAtMsg, OpTxtMsg,
		OpUserList, OpGetUserListSuccess, OpGetUserListFail, OpAttachFile,
		OpHeartBeat, OpChatroomMember, OpChatroomMemberNick,
		OpDebugSwitch, OpPersonalInfo, OpPersonalDetail,
	}
}

// Known 判断是否属于协议定义的操作码集合。
func (t OpType) Known() bool {
	_, ok := opNames[t]
	return ok
}

func (t OpType) String() string {
	if name, ok := opNames[t]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", int(t))
}

// UnmarshalJSON 只接受已知操作码，未知取值视为类型不匹配。
func (t *OpType) UnmarshalJSON(data []byte) error {
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	op := OpType(v)
	if !op.Known() {
		return fmt.Errorf("unknown op type %d", v)
	}
	*t = op
	return nil
}

// RequestEnvelope 是发往宿主的请求体，所有字段都必须出现在线上。
// 不适用的字段由编码层填入哨兵值 "null"。
type RequestEnvelope struct {
	ID       string `json:"id"`   // 关联 ID，宿主在回复中原样带回
	Type     OpType `json:"type"` // 操作码
	RoomID   string `json:"roomid"`
	WxID     string `json:"wxid"`
	Content  string `json:"content"`
	Nickname string `json:"nickname"`
	Ext      string `json:"ext"`
}

// ResponseEnvelope 是宿主回复的统一外壳。
// 注意 Type 这里是原始数值，宿主可能回复协议集合之外的取值。
type ResponseEnvelope[T any] struct {
	Content T      `json:"content"`
	ID      string `json:"id"`
	Type    int    `json:"type"`
}
