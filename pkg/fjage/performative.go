// pkg/fjage/performative.go
// Performative mirrors the FIPA-ACL communicative-act vocabulary used by the
// fjåge agent platform on every Message. The set and spellings match the
// platform wire format exactly; peers compare the string form, not an
// integer code.
package fjage

// Performative names the speech act a Message carries.
type Performative string

// The full fjåge performative vocabulary.
const (
	Request       Performative = "REQUEST"
	Agree         Performative = "AGREE"
	Refuse        Performative = "REFUSE"
	Failure       Performative = "FAILURE"
	Inform        Performative = "INFORM"
	Confirm       Performative = "CONFIRM"
	Disconfirm    Performative = "DISCONFIRM"
	QueryIf       Performative = "QUERY_IF"
	NotUnderstood Performative = "NOT_UNDERSTOOD"
	Cfp           Performative = "CFP"
	Propose       Performative = "PROPOSE"
	Cancel        Performative = "CANCEL"
)

// String satisfies fmt.Stringer.
func (p Performative) String() string { return string(p) }
