package ws

import (
	"errors"
	"testing"

	"kartlobby/internal/domain"
)

func TestEncodeDecode_Vote(t *testing.T) {
	ev := domain.NewEvent(domain.EventVote, &domain.VotePayload{
		PlayerName: "ann",
		TrackID:    "volcano",
		Laps:       5,
		Reverse:    true,
	})

	data, err := EncodeEvent(ev)
	if err != nil {
		t.Fatalf("EncodeEvent: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if decoded.Type != domain.EventVote {
		t.Fatalf("type = %s, want %s", decoded.Type, domain.EventVote)
	}
	payload, ok := decoded.Payload.(*domain.VotePayload)
	if !ok {
		t.Fatalf("payload type = %T", decoded.Payload)
	}
	if payload.TrackID != "volcano" || payload.Laps != 5 || !payload.Reverse {
		t.Errorf("payload = %+v", payload)
	}
}

func TestEncodeDecode_BareEvent(t *testing.T) {
	data, err := EncodeEvent(domain.NewEvent(domain.EventStartRace, nil))
	if err != nil {
		t.Fatalf("EncodeEvent: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if decoded.Type != domain.EventStartRace || decoded.Payload != nil {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestDecode_RefusalCarriesReason(t *testing.T) {
	data, err := EncodeEvent(domain.NewEvent(domain.EventConnectionRefused,
		&domain.ConnectionRefusedPayload{Reason: domain.RefusalBanned}))
	if err != nil {
		t.Fatalf("EncodeEvent: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if decoded.Payload.(*domain.ConnectionRefusedPayload).Reason != domain.RefusalBanned {
		t.Error("the refusal reason must survive the wire")
	}
}

func TestDecode_UnknownTypeRejected(t *testing.T) {
	_, err := DecodeEvent([]byte(`{"type":"NOT_AN_EVENT"}`))
	if !errors.Is(err, domain.ErrUnknownEvent) {
		t.Errorf("err = %v, want ErrUnknownEvent", err)
	}
}

func TestDecode_MalformedFrameRejected(t *testing.T) {
	if _, err := DecodeEvent([]byte(`{not json`)); err == nil {
		t.Error("malformed frames must be rejected")
	}
	if _, err := DecodeEvent([]byte(`{"type":"VOTE","payload":42}`)); err == nil {
		t.Error("mistyped payloads must be rejected")
	}
}
