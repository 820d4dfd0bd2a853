package gallery

import "regexp"

// Verdict is the outcome of the ownership gate.
type Verdict int

const (
	// Authorized means the acting user is the post owner.
	Authorized Verdict = iota
	// Unauthorized means the footer parsed to somebody else.
	Unauthorized
	// Corrupt means the footer is missing or does not parse to an identity.
	// No mutation may happen; the caller must reject rather than guess an
	// owner.
	Corrupt
)

func (v Verdict) String() string {
	switch v {
	case Authorized:
		return "authorized"
	case Unauthorized:
		return "unauthorized"
	default:
		return "corrupt"
	}
}

var ownerPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ParseOwner extracts the owner identity from a post footer. The second
// return value is false when the footer holds no usable identity.
func ParseOwner(footer string) (string, bool) {
	if !ownerPattern.MatchString(footer) {
		return "", false
	}
	return footer, true
}

// CheckOwner runs the ownership gate for a post against the acting user. It
// is re-run on every interaction so the footer stays the sole authority even
// if the post was edited externally in between.
func CheckOwner(post Post, actorID string) Verdict {
	owner, ok := ParseOwner(post.OwnerID)
	if !ok {
		return Corrupt
	}
	if owner != actorID {
		return Unauthorized
	}
	return Authorized
}
