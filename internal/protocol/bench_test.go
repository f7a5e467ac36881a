package protocol

import (
	"testing"

	"github.com/gorilla/websocket"
)

func BenchmarkResolveMessage(b *testing.B) {
	payloads := []string{heartBeatPayload, textPayload, picturePayload}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ResolveMessage(payloads[i%len(payloads)]); err != nil {
			b.Fatalf("ResolveMessage: %v", err)
		}
	}
}

func BenchmarkClassifyParallel(b *testing.B) {
	frame := Frame{Type: websocket.TextMessage, Data: []byte(textPayload)}
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := Classify(frame); err != nil {
				b.Fatalf("Classify: %v", err)
			}
		}
	})
}
