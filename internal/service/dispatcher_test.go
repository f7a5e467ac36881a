package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"go-wxhook/internal/model"
	"go-wxhook/internal/protocol"
)

type sourceResult struct {
	ev  model.PushEvent
	err error
}

// stubSource 依次返回预置结果，用完后返回 io.EOF；block 为 true 时阻塞直到 Close。
type stubSource struct {
	results []sourceResult
	block   bool
	closed  chan struct{}
}

func newStubSource(results ...sourceResult) *stubSource {
	return &stubSource{results: results, closed: make(chan struct{})}
}

func (s *stubSource) Next() (model.PushEvent, error) {
	if len(s.results) > 0 {
		r := s.results[0]
		s.results = s.results[1:]
		return r.ev, r.err
	}
	if s.block {
		<-s.closed
		return model.PushEvent{}, &protocol.TransportError{Op: "push_read", Err: errors.New("use of closed connection")}
	}
	return model.PushEvent{}, io.EOF
}

func (s *stubSource) Close() error {
	select {
	case <-s.closed:
	default:
		close(s.closed)
	}
	return nil
}

type stubSink struct {
	published []model.DomainMessage
	err       error
}

func (s *stubSink) Publish(ctx context.Context, msg model.DomainMessage) error {
	s.published = append(s.published, msg)
	return s.err
}

func TestDispatcherRoutesByKind(t *testing.T) {
	group := model.TextMessage{ID1: "wxid_a", WxID: "123@chatroom", Type: model.OpRecvTxtMsg}
	pic := model.PictureMessage{ID: "p1", Type: model.OpRecvPicMsg}
	hb := model.HeartBeat{ID: "h1", Type: model.OpHeartBeat}
	src := newStubSource(
		sourceResult{ev: model.PongEvent(nil)},
		sourceResult{ev: model.DomainEvent(group)},
		sourceResult{err: &protocol.ClassifyError{Raw: "not-json-at-all"}},
		sourceResult{ev: model.DomainEvent(pic)},
		sourceResult{ev: model.PingEvent([]byte("x"))},
		sourceResult{ev: model.DomainEvent(hb)},
		sourceResult{ev: model.ClosedEvent()},
		sourceResult{ev: model.DomainEvent(group)}, // 关闭之后不再分发
	)
	sink := &stubSink{err: errors.New("mq down")}

	var texts []model.Identity
	var pics, beats int
	d := NewDispatcher(src, nil).
		OnText(func(ctx context.Context, msg model.TextMessage, id model.Identity) { texts = append(texts, id) }).
		OnPicture(func(ctx context.Context, msg model.PictureMessage) { pics++ }).
		OnHeartBeat(func(ctx context.Context, msg model.HeartBeat) { beats++ }).
		WithSink(sink)

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(texts) != 1 || pics != 1 || beats != 1 {
		t.Fatalf("unexpected counts texts=%d pics=%d beats=%d", len(texts), pics, beats)
	}
	if !texts[0].IsGroup || texts[0].RoomID != "123@chatroom" || texts[0].OriginatorID != "wxid_a" {
		t.Fatalf("unexpected identity %+v", texts[0])
	}
	if len(sink.published) != 3 {
		t.Fatalf("expected 3 published messages, got %d", len(sink.published))
	}
}

func TestDispatcherStopsOnEOF(t *testing.T) {
	d := NewDispatcher(newStubSource(), nil)
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("expected nil on EOF, got %v", err)
	}
}

func TestDispatcherReturnsFatalErrors(t *testing.T) {
	cases := []error{
		&protocol.UnsupportedFrameError{FrameType: 2},
		&protocol.TransportError{Op: "push_read", Err: errors.New("reset")},
	}
	for _, want := range cases {
		d := NewDispatcher(newStubSource(sourceResult{err: want}), nil)
		if err := d.Run(context.Background()); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestDispatcherCancelClosesSource(t *testing.T) {
	src := newStubSource()
	src.block = true
	d := NewDispatcher(src, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
