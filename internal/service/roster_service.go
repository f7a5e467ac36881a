package service

import (
	"context"

	"go.uber.org/zap"

	"go-wxhook/internal/logger"
	"go-wxhook/internal/model"
)

// RosterSource 宿主侧的通讯录查询，client.Client 实现了它。
type RosterSource interface {
	ContactList(ctx context.Context) ([]model.ContactInfo, error)
	ChatroomMemberList(ctx context.Context) ([]model.RoomInfo, error)
	MemberNickname(ctx context.Context, wxid, roomID string) (model.RoomMemberNick, error)
}

// RosterStore 抽象仓储接口，便于测试替换。
type RosterStore interface {
	SaveContacts(ctx context.Context, contacts []model.Contact) error
	ReplaceRoomMembers(ctx context.Context, roomID string, members []model.RoomMember) error
}

// SyncResult 一次同步写入的数量。
type SyncResult struct {
	Contacts int
	Rooms    int
	Members  int
}

type RosterService struct {
	source RosterSource
	store  RosterStore   // 可为 nil：只查询不落库
	cache  NicknameCache // 可为 nil：每次都问宿主
	logger *zap.Logger
}

func NewRosterService(source RosterSource, store RosterStore, cache NicknameCache, l *zap.Logger) *RosterService {
	return &RosterService{
		source: source,
		store:  store,
		cache:  cache,
		logger: logger.Or(l).With(zap.String("component", "roster")),
	}
}

// Sync 拉取通讯录和群成员列表并写入仓储。
func (s *RosterService) Sync(ctx context.Context) (SyncResult, error) {
	contacts, err := s.source.ContactList(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	rooms, err := s.source.ChatroomMemberList(ctx)
	if err != nil {
		return SyncResult{}, err
	}

	res := SyncResult{Contacts: len(contacts), Rooms: len(rooms)}
	if s.store == nil {
		for _, room := range rooms {
			res.Members += len(model.RoomMembersFromInfo(room))
		}
		return res, nil
	}

	rows := make([]model.Contact, 0, len(contacts))
	for _, c := range contacts {
		if c.ID == "" {
			continue
		}
		rows = append(rows, model.ContactFromInfo(c))
	}
	if err := s.store.SaveContacts(ctx, rows); err != nil {
		return res, err
	}
	for _, room := range rooms {
		members := model.RoomMembersFromInfo(room)
		if err := s.store.ReplaceRoomMembers(ctx, room.RoomID, members); err != nil {
			return res, err
		}
		res.Members += len(members)
	}
	s.logger.Info("通讯录同步完成",
		zap.Int("contacts", res.Contacts),
		zap.Int("rooms", res.Rooms),
		zap.Int("members", res.Members),
	)
	return res, nil
}

// Nickname 返回成员在群内的昵称，先查缓存，缓存故障不影响查询。
func (s *RosterService) Nickname(ctx context.Context, roomID, wxid string) (string, error) {
	if s.cache != nil {
		nick, ok, err := s.cache.Get(ctx, roomID, wxid)
		if err != nil {
			s.logger.Warn("读取昵称缓存失败", zap.String("room_id", roomID), zap.Error(err))
		} else if ok {
			return nick, nil
		}
	}

	info, err := s.source.MemberNickname(ctx, wxid, roomID)
	if err != nil {
		return "", err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, roomID, wxid, info.Nick); err != nil {
			s.logger.Warn("写入昵称缓存失败", zap.String("room_id", roomID), zap.Error(err))
		}
	}
	return info.Nick, nil
}
