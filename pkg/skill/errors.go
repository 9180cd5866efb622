package skill

import "github.com/pkg/errors"

// Sentinel errors raised by the registry and construction APIs. Call
// sites wrap these with errors.Wrapf to add the offending name; use
// errors.Is to classify.
var (
	// ErrNotFound indicates a lookup or unregister for a name with no
	// registered skill.
	ErrNotFound = errors.New("skill not found")

	// ErrDuplicate indicates a registration under a name that is
	// already taken.
	ErrDuplicate = errors.New("skill already registered")

	// ErrInvalidSkill indicates a registration or step construction
	// given something that is not a usable skill reference.
	ErrInvalidSkill = errors.New("invalid skill")
)
