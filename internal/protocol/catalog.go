package protocol

import "go-wxhook/internal/model"

// Field 标识请求外壳里可由调用方填写的字段。
type Field uint8

const (
	FieldRoomID Field = 1 << iota
	FieldWxID
	FieldContent
	FieldNickname
	FieldExt
)

// Operation 描述一个出站操作：操作码、宿主路径与用到的字段。
type Operation struct {
	Name   string
	Type   model.OpType
	Path   string
	Fields Field
	// FixedContent 非空时总是写入 content，调用方无法覆盖。
	FixedContent string
	// NestedReply 表示回复的 content 是 JSON 字符串，需要二次解码。
	NestedReply bool
}

// Uses 判断该操作是否使用某个字段。
func (o Operation) Uses(f Field) bool {
	return o.Fields&f != 0
}

// 宿主路径照抄原样，包括其中的拼写错误。
var (
	OpPersonalInfo = Operation{
		Name:        "personal_info",
		Type:        model.OpPersonalInfo,
		Path:        "api/get_personal_info",
		NestedReply: true,
	}
	OpRoomMembers = Operation{
		Name:         "room_members",
		Type:         model.OpChatroomMember,
		Path:         "api/getmemberid",
		Fields:       FieldContent,
		FixedContent: "op:list member",
	}
	OpContactList = Operation{
		Name: "contact_list",
		Type: model.OpUserList,
		Path: "api/getcontactlist",
	}
	OpMemberNickname = Operation{
		Name:        "member_nickname",
		Type:        model.OpChatroomMemberNick,
		Path:        "api/getmembernick",
		Fields:      FieldWxID | FieldRoomID,
		NestedReply: true,
	}
	OpSendAt = Operation{
		Name:   "send_at",
		Type:   model.OpAtMsg,
		Path:   "api/sendatmsg",
		Fields: FieldRoomID | FieldWxID | FieldContent | FieldNickname,
	}
	OpSendPicture = Operation{
		Name:   "send_picture",
		Type:   model.OpPicMsg,
		Path:   "api/sendpic",
		Fields: FieldWxID | FieldContent,
	}
	OpChatroomMemberList = Operation{
		Name: "chatroom_member_list",
		Type: model.OpChatroomMember,
		Path: "api/get_charroom_member_list",
	}
	OpSendText = Operation{
		Name:   "send_text",
		Type:   model.OpTxtMsg,
		Path:   "api/sendtxtmsg",
		Fields: FieldWxID | FieldContent,
	}
	OpSendAttachment = Operation{
		Name:   "send_attachment",
		Type:   model.OpAttachFile,
		Path:   "api/sendattatch",
		Fields: FieldWxID | FieldContent,
	}
)

// Catalog 返回全部出站操作。
func Catalog() []Operation {
	return []Operation{
		OpPersonalInfo, OpRoomMembers, OpContactList, OpMemberNickname,
		OpSendAt, OpSendPicture, OpChatroomMemberList, OpSendText, OpSendAttachment,
	}
}

// LookupOperation 按名称查找操作。
func LookupOperation(name string) (Operation, error) {
	for _, op := range Catalog() {
		if op.Name == name {
			return op, nil
		}
	}
	return Operation{}, ErrUnknownOperation
}
