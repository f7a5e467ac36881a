package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"go-wxhook/internal/infra"
	"go-wxhook/internal/model"
)

func TestDSN(t *testing.T) {
	dsn := DSN(infra.MySQLConfig{Addr: "db:3306", User: "u", Password: "p", Database: "wx"})
	if !strings.HasPrefix(dsn, "u:p@tcp(db:3306)/wx?") {
		t.Fatalf("unexpected dsn %s", dsn)
	}
	for _, want := range []string{"parseTime=true", "charset=utf8mb4"} {
		if !strings.Contains(dsn, want) {
			t.Fatalf("dsn %s missing %s", dsn, want)
		}
	}
}

func TestStampDoesNotMutateInput(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	contacts := []model.Contact{{WxID: "wxid_a"}}
	rows := stampContacts(contacts, now)
	if !rows[0].UpdatedAt.Equal(now) || rows[0].WxID != "wxid_a" {
		t.Fatalf("unexpected stamped contact %+v", rows[0])
	}
	if !contacts[0].UpdatedAt.IsZero() {
		t.Fatalf("caller's contacts were modified: %+v", contacts[0])
	}

	members := []model.RoomMember{{RoomID: "other", WxID: "wxid_a"}}
	stamped := stampMembers("1@chatroom", members, now)
	if stamped[0].RoomID != "1@chatroom" || !stamped[0].UpdatedAt.Equal(now) {
		t.Fatalf("unexpected stamped member %+v", stamped[0])
	}
	if members[0].RoomID != "other" || !members[0].UpdatedAt.IsZero() {
		t.Fatalf("caller's members were modified: %+v", members[0])
	}
}

func prepareRepo(t *testing.T) *RosterRepository {
	t.Helper()
	cfg, err := infra.LoadConfig("")
	if err != nil {
		t.Skipf("skip: config not loadable: %v", err)
	}
	db, err := NewDB(cfg.MySQL, nil)
	if err != nil {
		t.Skipf("skip: MySQL not available: %v", err)
	}
	repo := NewRosterRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		t.Fatalf("migrate tables: %v", err)
	}
	// 清理测试数据
	_ = db.Exec("DELETE FROM wx_contact WHERE wxid LIKE 'test_%'").Error
	_ = db.Exec("DELETE FROM wx_room_member WHERE room_id LIKE 'test_%'").Error
	return repo
}

func TestRosterRepositoryIntegration(t *testing.T) {
	repo := prepareRepo(t)
	ctx := context.Background()

	if err := repo.SaveContacts(ctx, []model.Contact{{WxID: "test_a", Name: "A"}}); err != nil {
		t.Fatalf("SaveContacts: %v", err)
	}
	if err := repo.SaveContacts(ctx, []model.Contact{{WxID: "test_a", Name: "A2"}}); err != nil {
		t.Fatalf("SaveContacts upsert: %v", err)
	}
	c, err := repo.FindContact(ctx, "test_a")
	if err != nil || c.Name != "A2" {
		t.Fatalf("FindContact: %+v %v", c, err)
	}
	if _, err := repo.FindContact(ctx, "test_missing"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}

	room := "test_1@chatroom"
	first := model.RoomMembersFromInfo(model.RoomInfo{RoomID: room, Members: []string{"test_a", "test_b"}})
	if err := repo.ReplaceRoomMembers(ctx, room, first); err != nil {
		t.Fatalf("ReplaceRoomMembers: %v", err)
	}
	second := model.RoomMembersFromInfo(model.RoomInfo{RoomID: room, Members: []string{"test_c"}})
	if err := repo.ReplaceRoomMembers(ctx, room, second); err != nil {
		t.Fatalf("ReplaceRoomMembers: %v", err)
	}
	members, err := repo.ListRoomMembers(ctx, room)
	if err != nil {
		t.Fatalf("ListRoomMembers: %v", err)
	}
	if len(members) != 1 || members[0].WxID != "test_c" {
		t.Fatalf("unexpected members %+v", members)
	}

	if err := repo.ReplaceRoomMembers(ctx, "", nil); err == nil {
		t.Fatalf("expected error for empty room id")
	}
}
