package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	"go-wxhook/internal/model"
)

func TestDecodeStructuredContent(t *testing.T) {
	raw := []byte(`{"content":[{"room_id":"1@chatroom","member":["a","b"],"address":7}],"id":"r1","type":5010}`)
	rooms, err := Decode[[]model.RoomInfo](raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rooms) != 1 || rooms[0].RoomID != "1@chatroom" || len(rooms[0].Members) != 2 || rooms[0].Address != 7 {
		t.Fatalf("unexpected rooms: %+v", rooms)
	}
}

func TestDecodeEnvelopeKeepsID(t *testing.T) {
	env, err := DecodeEnvelope[json.RawMessage]([]byte(`{"content":{"x":1},"id":"abc","type":550}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.ID != "abc" || env.Type != 550 || string(env.Content) != `{"x":1}` {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestDecodeShapeMismatch(t *testing.T) {
	cases := map[string]string{
		"not json":        `oops`,
		"missing id":      `{"content":"x","type":1}`,
		"missing content": `{"id":"a","type":1}`,
		"wrong content":   `{"content":"x","id":"a","type":1}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode[[]model.ContactInfo]([]byte(raw))
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("expected DecodeError, got %v", err)
			}
			if de.Raw != raw {
				t.Fatalf("raw text not attached: %q", de.Raw)
			}
		})
	}
}

func TestDecodeNestedRoundTrip(t *testing.T) {
	want := model.PersonInfo{Code: "code_1", ID: "wxid_self", Name: "小九"}
	inner, _ := json.Marshal(want)
	raw, _ := json.Marshal(map[string]any{"content": string(inner), "id": "1", "type": 6500})

	s, err := Decode[string](raw)
	if err != nil {
		t.Fatalf("decode string: %v", err)
	}
	if s != string(inner) {
		t.Fatalf("string layer changed: %q", s)
	}
	got, err := DecodeNested[model.PersonInfo](raw)
	if err != nil {
		t.Fatalf("decode nested: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestDecodeNestedInnerFailure(t *testing.T) {
	raw := []byte(`{"content":"{not json","id":"1","type":5020}`)
	_, err := DecodeNested[model.RoomMemberNick](raw)
	var ie *InnerDecodeError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InnerDecodeError, got %v", err)
	}
	if ie.Raw != "{not json" {
		t.Fatalf("unexpected inner raw %q", ie.Raw)
	}
	var de *DecodeError
	if errors.As(err, &de) {
		t.Fatalf("inner failure must not look like a transport shape failure")
	}
}

func TestDecodeNestedOuterFailure(t *testing.T) {
	raw := []byte(`{"content":{"nick":"a"},"id":"1","type":5020}`)
	_, err := DecodeNested[model.RoomMemberNick](raw)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestDecodeNullContentIsShapeFailure(t *testing.T) {
	raw := []byte(`{"content":null,"id":"1","type":6500}`)
	check := func(name string, err error) {
		t.Helper()
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("%s: expected DecodeError, got %v", name, err)
		}
		var ie *InnerDecodeError
		if errors.As(err, &ie) {
			t.Fatalf("%s: null content must not be an inner failure", name)
		}
	}
	_, err := Decode[string](raw)
	check("string", err)
	_, err = Decode[[]model.ContactInfo](raw)
	check("contact list", err)
	_, err = DecodeNested[model.PersonInfo](raw)
	check("nested person", err)

	// 不透明回复原样透传 null
	out, err := Decode[json.RawMessage](raw)
	if err != nil || string(out) != "null" {
		t.Fatalf("opaque reply: %q %v", out, err)
	}
}

func TestDecodeRecordRequiresFields(t *testing.T) {
	raw := []byte(`{"content":[{"unexpected":1}],"id":"1","type":5000}`)
	_, err := Decode[[]model.ContactInfo](raw)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError for incomplete contact, got %v", err)
	}

	rooms := []byte(`{"content":[{"room_id":"1@chatroom","member":null,"address":1}],"id":"1","type":5010}`)
	if _, err := Decode[[]model.RoomInfo](rooms); !errors.As(err, &de) {
		t.Fatalf("expected DecodeError for null member list, got %v", err)
	}

	nested := []byte(`{"content":"{}","id":"1","type":6500}`)
	_, err = DecodeNested[model.PersonInfo](nested)
	var ie *InnerDecodeError
	if !errors.As(err, &ie) || ie.Raw != "{}" {
		t.Fatalf("expected InnerDecodeError for empty person, got %v", err)
	}

	nick := []byte(`{"content":"{\"nick\":\"a\",\"roomid\":\"r\"}","id":"1","type":5020}`)
	if _, err := DecodeNested[model.RoomMemberNick](nick); !errors.As(err, &ie) {
		t.Fatalf("expected InnerDecodeError for nick without wxid, got %v", err)
	}
}

func TestDecodeRecordIgnoresCaseVariantKeys(t *testing.T) {
	raw := []byte(`{"content":"{\"wx_code\":\"c\",\"wx_id\":\"wxid_self\",\"wx_name\":\"me\",\"WX_ID\":\"other\"}","id":"1","type":6500}`)
	info, err := DecodeNested[model.PersonInfo](raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.ID != "wxid_self" {
		t.Fatalf("case-variant key overrode field: %+v", info)
	}
}
