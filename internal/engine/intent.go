package engine

// IntentKind tags what the user meant by a gesture
type IntentKind int

const (
	IntentNone IntentKind = iota
	IntentOpen
	IntentReselectNested
	IntentInteractInside
	IntentDismissOne
	IntentDismissAll
)

// String returns the string representation of the intent kind
func (k IntentKind) String() string {
	switch k {
	case IntentNone:
		return "none"
	case IntentOpen:
		return "open"
	case IntentReselectNested:
		return "reselect-nested"
	case IntentInteractInside:
		return "interact-inside"
	case IntentDismissOne:
		return "dismiss-one"
	case IntentDismissAll:
		return "dismiss-all"
	default:
		return "unknown"
	}
}

// Intent is the classified result of one pointer or key event.
// Selection is set for Open and ReselectNested, Owner for ReselectNested,
// Target for InteractInside and DismissOne.
type Intent struct {
	Kind      IntentKind
	Selection Selection
	Owner     ID
	Target    ID
}
