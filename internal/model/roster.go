package model

import "time"

// Contact 通讯录快照，按 wxid 唯一。
type Contact struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	WxID      string    `gorm:"column:wxid;type:varchar(64);uniqueIndex"`
	Code      string    `gorm:"column:wxcode;type:varchar(64)"`
	Name      string    `gorm:"column:name;type:varchar(255)"`
	Remark    string    `gorm:"column:remark;type:varchar(255)"`
	AvatarURL string    `gorm:"column:avatar_url;type:varchar(512)"`
	Node      uint64    `gorm:"column:node"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Contact) TableName() string { return "wx_contact" }

// RoomMember 群成员关系快照，(room_id, wxid) 唯一。
type RoomMember struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	RoomID    string    `gorm:"column:room_id;type:varchar(64);uniqueIndex:uk_room_member,priority:1"`
	WxID      string    `gorm:"column:wxid;type:varchar(64);uniqueIndex:uk_room_member,priority:2"`
	Address   uint64    `gorm:"column:address"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (RoomMember) TableName() string { return "wx_room_member" }

// ContactFromInfo 把宿主返回的通讯录条目转换为持久化行。
func ContactFromInfo(info ContactInfo) Contact {
	return Contact{
		WxID:      info.ID,
		Code:      info.Code,
		Name:      info.Name,
		Remark:    info.Remark,
		AvatarURL: info.AvatarURL,
		Node:      info.Node,
	}
}

// RoomMembersFromInfo 把一个群展开为成员行。
func RoomMembersFromInfo(info RoomInfo) []RoomMember {
	rows := make([]RoomMember, 0, len(info.Members))
	for _, wxid := range info.Members {
		if wxid == "" {
			continue
		}
		rows = append(rows, RoomMember{RoomID: info.RoomID, WxID: wxid, Address: info.Address})
	}
	return rows
}
