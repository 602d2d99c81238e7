package fjage

import "testing"

func TestShortNameOf(t *testing.T) {
	if got := ShortNameOf("org.arl.fjage.param.ParameterReq"); got != "ParameterReq" {
		t.Errorf("ShortNameOf = %q, want %q", got, "ParameterReq")
	}
	if got := ShortNameOf("NoDots"); got != "NoDots" {
		t.Errorf("ShortNameOf = %q, want %q", got, "NoDots")
	}
}

func TestDefaultPerformativeForKnownAndUnknownClasses(t *testing.T) {
	if got := DefaultPerformativeFor(ClazzParameterReq); got != Request {
		t.Errorf("DefaultPerformativeFor(ParameterReq) = %q, want %q", got, Request)
	}
	if got := DefaultPerformativeFor("org.example.SomeReq"); got != Request {
		t.Errorf("unregistered *Req clazz should default to Request, got %q", got)
	}
	if got := DefaultPerformativeFor("org.example.SomeMsg"); got != Inform {
		t.Errorf("unregistered non-Req clazz should default to Inform, got %q", got)
	}
}

func TestRegisterClassPanicsOnDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected RegisterClass to panic on a duplicate short name")
		}
	}()
	RegisterClass("ParameterReq", "some.other.Clazz", Inform)
}

func TestLookupClassByShortNameAndClazz(t *testing.T) {
	info, ok := LookupClassByShortName("ParameterRsp")
	if !ok {
		t.Fatal("expected ParameterRsp to be registered")
	}
	if info.Clazz != ClazzParameterRsp {
		t.Errorf("Clazz = %q, want %q", info.Clazz, ClazzParameterRsp)
	}
	byClazz, ok := LookupClassByClazz(ClazzParameterRsp)
	if !ok || byClazz.ShortName != "ParameterRsp" {
		t.Errorf("LookupClassByClazz = %+v, ok=%v", byClazz, ok)
	}
}
