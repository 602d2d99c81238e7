// pkg/fjage/registry.go
// Message-class registry: short-name -> fully qualified clazz plus the
// default performative new instances of that class get, grounded on the
// teacher's internal/plugins/registry.go (a Kind -> named-Plugin map guarded
// by a mutex, Register panicking on duplicate registration) and on fjagepy's
// MessageClass factory (which special-cases any clazz ending in "Req" to
// default to Performative.REQUEST). The teacher's dynamic .so plugin loading
// (LoadShared) has no analog here: message classes are a fixed, known wire
// vocabulary, not runtime-loaded code, so that half of registry.go is not
// carried over (see DESIGN.md).
package fjage

import (
	"fmt"
	"strings"
	"sync"
)

// ClassInfo describes a registered message class.
type ClassInfo struct {
	ShortName   string
	Clazz       string
	DefaultPerf Performative
}

var (
	classMu    sync.RWMutex
	classByTag = map[string]ClassInfo{} // keyed by ShortName
	classByFQ  = map[string]ClassInfo{} // keyed by Clazz
)

// RegisterClass adds a message class to the registry. It panics if shortName
// is already registered, matching the teacher's registry.Register behaviour:
// a duplicate registration is a programming error, not a runtime condition to
// recover from.
func RegisterClass(shortName, clazz string, defaultPerf Performative) ClassInfo {
	classMu.Lock()
	defer classMu.Unlock()
	if _, exists := classByTag[shortName]; exists {
		panic(fmt.Sprintf("fjage: message class %q already registered", shortName))
	}
	info := ClassInfo{ShortName: shortName, Clazz: clazz, DefaultPerf: defaultPerf}
	classByTag[shortName] = info
	classByFQ[clazz] = info
	return info
}

// LookupClassByShortName returns the registered ClassInfo for a short name
// (e.g. "ParameterReq"), if any.
func LookupClassByShortName(shortName string) (ClassInfo, bool) {
	classMu.RLock()
	defer classMu.RUnlock()
	info, ok := classByTag[shortName]
	return info, ok
}

// LookupClassByClazz returns the registered ClassInfo for a fully qualified
// clazz string, if any.
func LookupClassByClazz(clazz string) (ClassInfo, bool) {
	classMu.RLock()
	defer classMu.RUnlock()
	info, ok := classByFQ[clazz]
	return info, ok
}

// ShortNameOf returns the unqualified trailing segment of a dotted clazz
// name, e.g. "org.arl.fjage.param.ParameterReq" -> "ParameterReq".
func ShortNameOf(clazz string) string {
	if idx := strings.LastIndexByte(clazz, '.'); idx >= 0 {
		return clazz[idx+1:]
	}
	return clazz
}

// DefaultPerformativeFor returns the default performative a newly
// constructed message of the given clazz should carry: any class registered
// explicitly uses its DefaultPerf; otherwise fjagepy's MessageClass rule
// applies (a clazz ending in "Req" defaults to REQUEST, everything else to
// INFORM).
func DefaultPerformativeFor(clazz string) Performative {
	if info, ok := LookupClassByClazz(clazz); ok {
		return info.DefaultPerf
	}
	if strings.HasSuffix(clazz, "Req") {
		return Request
	}
	return Inform
}

const (
	baseMessageClazz = "org.arl.fjage.Message"
	genericMsgClazz  = "org.arl.fjage.GenericMessage"

	ClazzParameterReq = "org.arl.fjage.param.ParameterReq"
	ClazzParameterRsp = "org.arl.fjage.param.ParameterRsp"
	ClazzPutFileReq   = "org.arl.fjage.shell.PutFileReq"
	ClazzGetFileReq   = "org.arl.fjage.shell.GetFileReq"
	ClazzShellExecReq = "org.arl.fjage.shell.ShellExecReq"
	ClazzGetFileRsp   = "org.arl.fjage.shell.GetFileRsp"
)

func init() {
	RegisterClass("Message", baseMessageClazz, Inform)
	RegisterClass("GenericMessage", genericMsgClazz, Inform)
	RegisterClass("ParameterReq", ClazzParameterReq, Request)
	RegisterClass("ParameterRsp", ClazzParameterRsp, Request) // fjagepy sets this explicitly, overriding the generic Req-suffix rule
	RegisterClass("PutFileReq", ClazzPutFileReq, Request)
	RegisterClass("GetFileReq", ClazzGetFileReq, Request)
	RegisterClass("ShellExecReq", ClazzShellExecReq, Request)
	RegisterClass("GetFileRsp", ClazzGetFileRsp, Inform)
}
