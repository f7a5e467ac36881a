package protocol

import (
	"errors"
	"testing"

	"github.com/gorilla/websocket"

	"go-wxhook/internal/model"
)

func TestClassifyPongToken(t *testing.T) {
	ev, err := Classify(Frame{Type: websocket.TextMessage, Data: []byte("pong")})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if ev.Kind != model.EventPong || len(ev.Payload) != 0 || ev.Message != nil {
		t.Fatalf("expected empty pong, got %+v", ev)
	}
}

func TestClassifyPongTokenIsExact(t *testing.T) {
	_, err := Classify(Frame{Type: websocket.TextMessage, Data: []byte(" pong")})
	var ce *ClassifyError
	if !errors.As(err, &ce) {
		t.Fatalf("padded token should fall through to decoding, got %v", err)
	}
}

func TestClassifyDomainMessage(t *testing.T) {
	ev, err := Classify(Frame{Type: websocket.TextMessage, Data: []byte(textPayload)})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if ev.Kind != model.EventDomain || ev.Message.MessageKind() != model.KindText {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestClassifyErrorCarriesRawText(t *testing.T) {
	_, err := Classify(Frame{Type: websocket.TextMessage, Data: []byte("not-json-at-all")})
	var ce *ClassifyError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ClassifyError, got %v", err)
	}
	if ce.Raw != "not-json-at-all" {
		t.Fatalf("unexpected raw %q", ce.Raw)
	}
	var nv *NoVariantMatchedError
	if !errors.As(err, &nv) || nv.Raw != "not-json-at-all" {
		t.Fatalf("expected wrapped NoVariantMatchedError, got %v", err)
	}
}

func TestClassifyControlFrames(t *testing.T) {
	ev, err := Classify(Frame{Type: websocket.CloseMessage})
	if err != nil || ev.Kind != model.EventClosed {
		t.Fatalf("expected closed, got %+v %v", ev, err)
	}
	ev, err = Classify(Frame{Type: websocket.PingMessage, Data: []byte("p1")})
	if err != nil || ev.Kind != model.EventPing || string(ev.Payload) != "p1" {
		t.Fatalf("expected ping, got %+v %v", ev, err)
	}
	ev, err = Classify(Frame{Type: websocket.PongMessage, Data: []byte("p2")})
	if err != nil || ev.Kind != model.EventPong || string(ev.Payload) != "p2" {
		t.Fatalf("expected pong, got %+v %v", ev, err)
	}
}

func TestClassifyUnsupportedFrame(t *testing.T) {
	_, err := Classify(Frame{Type: websocket.BinaryMessage, Data: []byte{1}})
	var ue *UnsupportedFrameError
	if !errors.As(err, &ue) || ue.FrameType != websocket.BinaryMessage {
		t.Fatalf("expected UnsupportedFrameError, got %v", err)
	}
}

func TestSendTextPredicate(t *testing.T) {
	if err := CheckSendText("operation succsessed, id=7"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	err := CheckSendText("operation failed")
	var of *OperationFailedError
	if !errors.As(err, &of) || of.Reply != "operation failed" {
		t.Fatalf("expected OperationFailedError with reply, got %v", err)
	}
	if SendSucceeded("operation successed") || SendSucceeded("successful") {
		t.Fatalf("only the exact misspelled marker counts")
	}
}
