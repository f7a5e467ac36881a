package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-wxhook/internal/logger"
	"go-wxhook/internal/model"
	"go-wxhook/internal/protocol"
	"go-wxhook/internal/service"
)

// HostClient 宿主请求通道，client.Client 实现了它。
type HostClient interface {
	PersonalInfo(ctx context.Context) (model.PersonInfo, error)
	ContactList(ctx context.Context) ([]model.ContactInfo, error)
	ChatroomMemberList(ctx context.Context) ([]model.RoomInfo, error)
	MemberNickname(ctx context.Context, wxid, roomID string) (model.RoomMemberNick, error)
	SendText(ctx context.Context, to, content string) error
	SendAtText(ctx context.Context, roomID, wxid, content, nickname string) (json.RawMessage, error)
	SendPicture(ctx context.Context, to, path string) (json.RawMessage, error)
	SendAttachment(ctx context.Context, to, path string) (json.RawMessage, error)
}

// RosterSyncer 由 service.RosterService 实现。
type RosterSyncer interface {
	Sync(ctx context.Context) (service.SyncResult, error)
}

// Replier 由 service.ReplyService 实现。
type Replier interface {
	Reply(ctx context.Context, msg model.TextMessage, content string) error
	ReplyAt(ctx context.Context, msg model.TextMessage, content string) error
}

// APIHandler 把宿主的请求操作以本地 HTTP 接口暴露出来。
type APIHandler struct {
	host    HostClient
	roster  RosterSyncer // 可为 nil：未启用同步
	replier Replier
	logger  *zap.Logger
}

func NewAPIHandler(host HostClient, roster RosterSyncer, l *zap.Logger) *APIHandler {
	return &APIHandler{
		host:   host,
		roster: roster,
		logger: logger.Or(l).With(zap.String("component", "api")),
	}
}

// WithReplier 启用 /api/reply。
func (h *APIHandler) WithReplier(r Replier) *APIHandler {
	h.replier = r
	return h
}

// Register 挂载 /api 下的全部路由。
func (h *APIHandler) Register(r gin.IRouter) {
	api := r.Group("/api")
	api.POST("/text", h.sendText)
	api.POST("/at", h.sendAt)
	api.POST("/pic", h.sendPicture)
	api.POST("/attach", h.sendAttachment)
	api.GET("/self", h.personalInfo)
	api.GET("/contacts", h.contacts)
	api.GET("/rooms", h.rooms)
	api.GET("/rooms/:room/members/:wxid/nick", h.memberNick)
	api.POST("/roster/sync", h.syncRoster)
	api.POST("/reply", h.reply)
}

// NewRouter 创建带 zap 访问日志与 panic 恢复的 gin 引擎。
func NewRouter(h *APIHandler) *gin.Engine {
	router := gin.New()
	router.Use(accessLog(h.logger), gin.Recovery())
	h.Register(router)
	return router
}

func accessLog(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Info("http",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("cost", time.Since(start)),
		)
	}
}

type textRequest struct {
	To      string `json:"to" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type atRequest struct {
	RoomID   string `json:"room_id" binding:"required"`
	WxID     string `json:"wxid" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Nickname string `json:"nickname"`
}

// replyRequest 中的 message 即推送收到的原始文字消息。
type replyRequest struct {
	Message *model.TextMessage `json:"message" binding:"required"`
	Content string             `json:"content" binding:"required"`
	At      bool              `json:"at"`
}

type fileRequest struct {
	To   string `json:"to" binding:"required"`
	Path string `json:"path" binding:"required"`
}

func (h *APIHandler) sendText(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.host.SendText(c.Request.Context(), req.To, req.Content); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *APIHandler) sendAt(c *gin.Context) {
	var req atRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reply, err := h.host.SendAtText(c.Request.Context(), req.RoomID, req.WxID, req.Content, req.Nickname)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "reply": reply})
}

func (h *APIHandler) sendPicture(c *gin.Context) {
	h.sendFile(c, h.host.SendPicture)
}

func (h *APIHandler) sendAttachment(c *gin.Context) {
	h.sendFile(c, h.host.SendAttachment)
}

func (h *APIHandler) sendFile(c *gin.Context, send func(ctx context.Context, to, path string) (json.RawMessage, error)) {
	var req fileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reply, err := send(c.Request.Context(), req.To, req.Path)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "reply": reply})
}

func (h *APIHandler) personalInfo(c *gin.Context) {
	info, err := h.host.PersonalInfo(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *APIHandler) contacts(c *gin.Context) {
	list, err := h.host.ContactList(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *APIHandler) rooms(c *gin.Context) {
	list, err := h.host.ChatroomMemberList(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *APIHandler) memberNick(c *gin.Context) {
	nick, err := h.host.MemberNickname(c.Request.Context(), c.Param("wxid"), c.Param("room"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nick)
}

func (h *APIHandler) syncRoster(c *gin.Context) {
	if h.roster == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "roster sync disabled"})
		return
	}
	res, err := h.roster.Sync(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": res.Contacts, "rooms": res.Rooms, "members": res.Members})
}

func (h *APIHandler) reply(c *gin.Context) {
	if h.replier == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reply disabled"})
		return
	}
	var req replyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Message.WxID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message.wxid 不能为空"})
		return
	}
	var err error
	if req.At {
		err = h.replier.ReplyAt(c.Request.Context(), *req.Message, req.Content)
	} else {
		err = h.replier.Reply(c.Request.Context(), *req.Message, req.Content)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// writeError 宿主侧失败统一映射为 502，其余为 500。
func (h *APIHandler) writeError(c *gin.Context, err error) {
	var (
		of *protocol.OperationFailedError
		te *protocol.TransportError
		de *protocol.DecodeError
		ie *protocol.InnerDecodeError
	)
	switch {
	case errors.As(err, &of):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "reply": of.Reply})
	case errors.As(err, &te), errors.As(err, &de), errors.As(err, &ie):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		h.logger.Error("请求处理失败", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
