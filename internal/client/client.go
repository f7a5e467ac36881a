package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"go-wxhook/internal/logger"
	"go-wxhook/internal/model"
	"go-wxhook/internal/protocol"
)

const defaultTimeout = 10 * time.Second

// Client 宿主请求通道。每次调用是一次独立的 HTTP POST，
// 回复就是这次调用拿到的响应体，客户端不跟踪未完成的请求。
type Client struct {
	baseURL *url.URL
	http    *http.Client
	builder *protocol.RequestBuilder
	ids     protocol.IDGenerator
	timeout time.Duration
	logger  *zap.Logger
}

type Option func(*Client)

// WithHTTPClient 使用自定义 http.Client，此时忽略 WithTimeout。
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithIDGenerator 替换关联 ID 生成器，默认是实例内计数器。
func WithIDGenerator(ids protocol.IDGenerator) Option {
	return func(c *Client) { c.ids = ids }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New 创建客户端，baseURL 形如 http://127.0.0.1:5555/。
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	c := &Client{baseURL: u, timeout: defaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	c.builder = protocol.NewRequestBuilder(c.ids)
	c.logger = logger.Or(c.logger).With(zap.String("component", "client"))
	return c, nil
}

// call 编码请求、发送并返回原始回复体。
func (c *Client) call(ctx context.Context, op protocol.Operation, f protocol.Fields) ([]byte, error) {
	req, err := c.builder.BuildOperation(ctx, op, f)
	if err != nil {
		return nil, err
	}
	body, err := protocol.Encode(req)
	if err != nil {
		return nil, err
	}
	endpoint := c.baseURL.ResolveReference(&url.URL{Path: op.Path})
	log := c.logger.With(zap.String("op", op.Name), zap.String("req_id", req.ID))
	log.Debug("发送请求", zap.ByteString("body", body))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, &protocol.TransportError{Op: op.Name, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &protocol.TransportError{Op: op.Name, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &protocol.TransportError{Op: op.Name, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &protocol.TransportError{
			Op:  op.Name,
			Err: fmt.Errorf("http status %d: %s", resp.StatusCode, raw),
		}
	}
	log.Debug("收到回复", zap.ByteString("body", raw))
	return raw, nil
}

// send 按目录声明选择一次或二次解码。
func send[T any](ctx context.Context, c *Client, op protocol.Operation, f protocol.Fields) (T, error) {
	raw, err := c.call(ctx, op, f)
	if err != nil {
		var zero T
		return zero, err
	}
	if op.NestedReply {
		return protocol.DecodeNested[T](raw)
	}
	return protocol.Decode[T](raw)
}

// PersonalInfo 获取本人信息。
func (c *Client) PersonalInfo(ctx context.Context) (model.PersonInfo, error) {
	return send[model.PersonInfo](ctx, c, protocol.OpPersonalInfo, protocol.NewFields())
}

// RoomMembers 获取群信息（op:list member）。
func (c *Client) RoomMembers(ctx context.Context) ([]model.RoomInfo, error) {
	return send[[]model.RoomInfo](ctx, c, protocol.OpRoomMembers, protocol.NewFields())
}

// ContactList 获取通讯录。
func (c *Client) ContactList(ctx context.Context) ([]model.ContactInfo, error) {
	return send[[]model.ContactInfo](ctx, c, protocol.OpContactList, protocol.NewFields())
}

// MemberNickname 获取指定群成员的群昵称，可用于 @。
func (c *Client) MemberNickname(ctx context.Context, wxid, roomID string) (model.RoomMemberNick, error) {
	f := protocol.NewFields().WxID(wxid).RoomID(roomID)
	return send[model.RoomMemberNick](ctx, c, protocol.OpMemberNickname, f)
}

// SendAtText 在群内 @ 成员。
func (c *Client) SendAtText(ctx context.Context, roomID, wxid, content, nickname string) (json.RawMessage, error) {
	f := protocol.NewFields().RoomID(roomID).WxID(wxid).Content(content).Nickname(nickname)
	return send[json.RawMessage](ctx, c, protocol.OpSendAt, f)
}

// SendPicture 发送图片，path 是宿主本机上的路径，原样透传。
func (c *Client) SendPicture(ctx context.Context, to, path string) (json.RawMessage, error) {
	f := protocol.NewFields().WxID(to).Content(path)
	return send[json.RawMessage](ctx, c, protocol.OpSendPicture, f)
}

// ChatroomMemberList 获取所有群的群成员。
func (c *Client) ChatroomMemberList(ctx context.Context) ([]model.RoomInfo, error) {
	return send[[]model.RoomInfo](ctx, c, protocol.OpChatroomMemberList, protocol.NewFields())
}

// SendText 发送文字，to 可以是 wxid 或群 ID。
// 回复中没有成功标记时返回 *protocol.OperationFailedError。
func (c *Client) SendText(ctx context.Context, to, content string) error {
	f := protocol.NewFields().WxID(to).Content(content)
	reply, err := send[string](ctx, c, protocol.OpSendText, f)
	if err != nil {
		return err
	}
	return protocol.CheckSendText(reply)
}

// SendAttachment 发送宿主本机上的文件。
func (c *Client) SendAttachment(ctx context.Context, to, path string) (json.RawMessage, error) {
	f := protocol.NewFields().WxID(to).Content(path)
	return send[json.RawMessage](ctx, c, protocol.OpSendAttachment, f)
}
