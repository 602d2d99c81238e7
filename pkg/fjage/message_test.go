package fjage

import "testing"

func TestNewMessageHasFreshID(t *testing.T) {
	m1 := NewMessage()
	m2 := NewMessage()
	if m1.MsgID == "" || m2.MsgID == "" {
		t.Fatal("MsgID should never be empty")
	}
	if m1.MsgID == m2.MsgID {
		t.Error("two NewMessage calls should not share a MsgID")
	}
}

func TestSetDoesNotMutateOriginal(t *testing.T) {
	m1 := NewGenericMessage()
	m2 := m1.Set("k", "v")
	if _, ok := m1.Get("k"); ok {
		t.Error("Set must not mutate the receiver's Data map")
	}
	v, ok := m2.Get("k")
	if !ok || v != "v" {
		t.Errorf("m2.Get(k) = (%v, %v), want (v, true)", v, ok)
	}
}

func TestInReplyToStampsRecipientAndCorrelation(t *testing.T) {
	req := NewMessage().WithSender(Agent("requester"))
	reply := InReplyTo(req, Inform)
	if reply.InReplyTo != req.MsgID {
		t.Errorf("InReplyTo = %q, want %q", reply.InReplyTo, req.MsgID)
	}
	if !reply.Recipient.Equal(req.Sender) {
		t.Errorf("Recipient = %+v, want %+v", reply.Recipient, req.Sender)
	}
}

func TestToFrameFromFrameRoundTrip(t *testing.T) {
	m := NewGenericMessage().
		WithSender(Agent("a")).
		WithPerf(Inform).
		Set("text", "hi").
		Set("samples", []complex128{complex(1, 2), complex(3, 4)})
	m = m.withRecipient(Topic("out"))

	frame := m.toFrame()
	back := messageFromFrame(frame)

	if back.MsgID != m.MsgID {
		t.Errorf("MsgID = %q, want %q", back.MsgID, m.MsgID)
	}
	if back.Perf != m.Perf {
		t.Errorf("Perf = %q, want %q", back.Perf, m.Perf)
	}
	if !back.Sender.Equal(m.Sender) {
		t.Errorf("Sender = %+v, want %+v", back.Sender, m.Sender)
	}
	if !back.Recipient.Equal(m.Recipient) {
		t.Errorf("Recipient = %+v, want %+v", back.Recipient, m.Recipient)
	}
	if text, _ := back.Get("text"); text != "hi" {
		t.Errorf("text = %v, want %q", text, "hi")
	}
	samples, ok := back.Get("samples")
	if !ok {
		t.Fatal("samples field missing after round trip")
	}
	cs, ok := samples.([]complex128)
	if !ok || len(cs) != 2 || cs[0] != complex(1, 2) || cs[1] != complex(3, 4) {
		t.Errorf("samples = %v, want [(1+2i) (3+4i)]", samples)
	}
}

func TestShortClazzAndString(t *testing.T) {
	m := NewGenericMessage()
	if m.ShortClazz() != "GenericMessage" {
		t.Errorf("ShortClazz() = %q, want %q", m.ShortClazz(), "GenericMessage")
	}
	if m.String() == "" {
		t.Error("String() should not be empty")
	}
}
