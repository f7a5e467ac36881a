package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-wxhook/internal/model"
)

// RosterRepository 负责通讯录与群成员快照的持久化。
type RosterRepository struct {
	db *gorm.DB
}

func NewRosterRepository(db *gorm.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// DB 暴露底层 *gorm.DB，便于测试/复用。
func (r *RosterRepository) DB() *gorm.DB {
	return r.db
}

// AutoMigrate 建表。
func (r *RosterRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&model.Contact{}, &model.RoomMember{})
}

// SaveContacts 按 wxid upsert 通讯录。
func (r *RosterRepository) SaveContacts(ctx context.Context, contacts []model.Contact) error {
	if len(contacts) == 0 {
		return nil
	}
	rows := stampContacts(contacts, time.Now())
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "wxid"}},
		DoUpdates: clause.AssignmentColumns([]string{"wxcode", "name", "remark", "avatar_url", "node", "updated_at"}),
	}).CreateInBatches(rows, 200).Error
}

// ReplaceRoomMembers 在事务中用新快照替换群成员，不在快照中的成员被删除。
func (r *RosterRepository) ReplaceRoomMembers(ctx context.Context, roomID string, members []model.RoomMember) error {
	if roomID == "" {
		return errors.New("roomID cannot be empty")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", roomID).Delete(&model.RoomMember{}).Error; err != nil {
			return err
		}
		if len(members) == 0 {
			return nil
		}
		rows := stampMembers(roomID, members, time.Now())
		return tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(rows, 200).Error
	})
}

// stampContacts 返回带更新时间的副本，不修改调用方的切片。
func stampContacts(contacts []model.Contact, now time.Time) []model.Contact {
	rows := make([]model.Contact, len(contacts))
	copy(rows, contacts)
	for i := range rows {
		rows[i].UpdatedAt = now
	}
	return rows
}

// stampMembers 返回归属 roomID 并带更新时间的副本。
func stampMembers(roomID string, members []model.RoomMember, now time.Time) []model.RoomMember {
	rows := make([]model.RoomMember, len(members))
	copy(rows, members)
	for i := range rows {
		rows[i].RoomID = roomID
		rows[i].UpdatedAt = now
	}
	return rows
}

// ListRoomMembers 返回群成员，按 wxid 升序。
func (r *RosterRepository) ListRoomMembers(ctx context.Context, roomID string) ([]model.RoomMember, error) {
	var members []model.RoomMember
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("wxid ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// FindContact 按 wxid 查询，未找到时返回 gorm.ErrRecordNotFound。
func (r *RosterRepository) FindContact(ctx context.Context, wxid string) (*model.Contact, error) {
	var c model.Contact
	err := r.db.WithContext(ctx).Where("wxid = ?", wxid).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}
