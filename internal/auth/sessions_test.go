package auth

import (
	"strings"
	"testing"
)

func TestCookieCodecRoundTrip(t *testing.T) {
	codec := NewCookieCodec([]byte("0123456789abcdef0123456789abcdef"))

	encoded := codec.EncodeSessionID("sess-123")
	if encoded == "sess-123" {
		t.Fatal("encoded value is unsigned")
	}

	id, ok := codec.DecodeSessionID(encoded)
	if !ok || id != "sess-123" {
		t.Fatalf("decode = (%q, %v), want (sess-123, true)", id, ok)
	}
}

func TestCookieCodecRejectsTampering(t *testing.T) {
	codec := NewCookieCodec([]byte("0123456789abcdef0123456789abcdef"))
	encoded := codec.EncodeSessionID("sess-123")

	tampered := strings.Replace(encoded, "sess-123", "sess-124", 1)
	if _, ok := codec.DecodeSessionID(tampered); ok {
		t.Error("tampered id accepted")
	}

	other := NewCookieCodec([]byte("ffffffffffffffffffffffffffffffff"))
	if _, ok := other.DecodeSessionID(encoded); ok {
		t.Error("signature from different secret accepted")
	}

	if _, ok := codec.DecodeSessionID("garbage"); ok {
		t.Error("unsigned value accepted")
	}
}

func TestCookieCodecEmptySecretPassesThrough(t *testing.T) {
	codec := NewCookieCodec(nil)
	if got := codec.EncodeSessionID("sess-1"); got != "sess-1" {
		t.Fatalf("encode = %q", got)
	}
	id, ok := codec.DecodeSessionID("sess-1")
	if !ok || id != "sess-1" {
		t.Fatalf("decode = (%q, %v)", id, ok)
	}
	if _, ok := codec.DecodeSessionID(""); ok {
		t.Error("empty cookie accepted")
	}
}
