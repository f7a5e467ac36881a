package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"go-wxhook/internal/logger"
	"go-wxhook/internal/model"
)

// TextSender 宿主侧的发送能力，client.Client 实现了它。
type TextSender interface {
	SendText(ctx context.Context, to, content string) error
	SendAtText(ctx context.Context, roomID, wxid, content, nickname string) (json.RawMessage, error)
}

// NicknameResolver 查询群昵称，RosterService 实现了它。
type NicknameResolver interface {
	Nickname(ctx context.Context, roomID, wxid string) (string, error)
}

// ReplyService 在收到消息的会话里回复。
type ReplyService struct {
	sender TextSender
	nicks  NicknameResolver
	logger *zap.Logger
}

func NewReplyService(sender TextSender, nicks NicknameResolver, l *zap.Logger) *ReplyService {
	return &ReplyService{
		sender: sender,
		nicks:  nicks,
		logger: logger.Or(l).With(zap.String("component", "reply")),
	}
}

// Reply 向消息所在会话发送文字：群消息发回群，私聊发回对方。
func (s *ReplyService) Reply(ctx context.Context, msg model.TextMessage, content string) error {
	return s.sender.SendText(ctx, msg.WxID, content)
}

// ReplyAt 在群里 @ 消息发送者；消息不带群 id 时退化为 Reply。
func (s *ReplyService) ReplyAt(ctx context.Context, msg model.TextMessage, content string) error {
	id := model.ResolveIdentity(msg)
	if !id.HasRoomID {
		return s.Reply(ctx, msg, content)
	}

	nick := ""
	if s.nicks != nil {
		n, err := s.nicks.Nickname(ctx, id.RoomID, id.OriginatorID)
		if err != nil {
			return err
		}
		nick = n
	}
	reply, err := s.sender.SendAtText(ctx, id.RoomID, id.OriginatorID, content, nick)
	if err != nil {
		return err
	}
	s.logger.Debug("at 消息已发送",
		zap.String("room_id", id.RoomID),
		zap.String("wxid", id.OriginatorID),
		zap.ByteString("reply", reply),
	)
	return nil
}
