package model

import (
	"encoding/json"
	"testing"
)

func TestResolveIdentity(t *testing.T) {
	cases := []struct {
		name       string
		msg        TextMessage
		wantGroup  bool
		wantRoom   string
		wantHas    bool
		wantSender string
	}{
		{
			name:       "chatroom",
			msg:        TextMessage{WxID: "12345@chatroom", ID1: "wxid_abc"},
			wantGroup:  true,
			wantRoom:   "12345@chatroom",
			wantHas:    true,
			wantSender: "wxid_abc",
		},
		{
			name:       "private",
			msg:        TextMessage{WxID: "wxid_abc", ID1: "ignored"},
			wantGroup:  false,
			wantHas:    false,
			wantSender: "wxid_abc",
		},
		{
			name:       "contains chatroom without suffix",
			msg:        TextMessage{WxID: "gh_chatroom_helper", ID1: "wxid_real"},
			wantGroup:  true,
			wantHas:    false,
			wantSender: "wxid_real",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id := ResolveIdentity(tc.msg)
			if id.IsGroup != tc.wantGroup {
				t.Fatalf("IsGroup=%v, want %v", id.IsGroup, tc.wantGroup)
			}
			if id.HasRoomID != tc.wantHas || id.RoomID != tc.wantRoom {
				t.Fatalf("RoomID=(%q,%v), want (%q,%v)", id.RoomID, id.HasRoomID, tc.wantRoom, tc.wantHas)
			}
			if id.OriginatorID != tc.wantSender {
				t.Fatalf("OriginatorID=%q, want %q", id.OriginatorID, tc.wantSender)
			}
		})
	}
}

func TestOpTypeRejectsUnknownValue(t *testing.T) {
	var op OpType
	if err := json.Unmarshal([]byte("5005"), &op); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op != OpHeartBeat {
		t.Fatalf("expected heartbeat, got %v", op)
	}
	if err := json.Unmarshal([]byte("42"), &op); err == nil {
		t.Fatalf("expected error for unknown op type")
	}
	if err := json.Unmarshal([]byte(`"5005"`), &op); err == nil {
		t.Fatalf("expected error for string op type")
	}
}

func TestOpTypeString(t *testing.T) {
	if got := OpTxtMsg.String(); got != "txt_msg" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := OpType(7).String(); got != "op(7)" {
		t.Fatalf("unexpected name %q", got)
	}
	if len(AllOpTypes()) != len(opNames) {
		t.Fatalf("AllOpTypes out of sync with names")
	}
}

func TestRoomMembersFromInfoSkipsEmpty(t *testing.T) {
	rows := RoomMembersFromInfo(RoomInfo{RoomID: "r@chatroom", Members: []string{"a", "", "b"}, Address: 9})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1].WxID != "b" || rows[1].RoomID != "r@chatroom" || rows[1].Address != 9 {
		t.Fatalf("unexpected row: %+v", rows[1])
	}
}
