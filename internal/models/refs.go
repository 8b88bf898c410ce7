package models

import (
	"errors"
	"regexp"
	"strconv"
)

// The management database links tables through encoded text references
// instead of foreign keys. Account entries point at their service order
// with an "O"-prefixed reference ("O1234"), and cash-register movements
// point at their account entry with an "R"-prefixed code ("R56").

// OrderRef identifies a service order decoded from an account entry reference.
type OrderRef int

// AccountCode identifies an account entry decoded from a cash-flow code.
type AccountCode int

// ErrUnresolvableRef indicates a reference string that does not follow
// the expected encoding. Rows carrying such references are excluded from
// aggregation, never treated as fatal.
var ErrUnresolvableRef = errors.New("unresolvable reference")

var (
	orderRefPattern    = regexp.MustCompile(`^O(\d+)$`)
	accountCodePattern = regexp.MustCompile(`^R(\d+)$`)
)

// DecodeOrderRef decodes an account entry reference ("O1234") into the
// owning order number.
func DecodeOrderRef(reference string) (OrderRef, error) {
	m := orderRefPattern.FindStringSubmatch(reference)
	if m == nil {
		return 0, ErrUnresolvableRef
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, ErrUnresolvableRef
	}
	return OrderRef(n), nil
}

// DecodeAccountCode decodes a cash-flow code ("R56") into the owning
// account entry code.
func DecodeAccountCode(code string) (AccountCode, error) {
	m := accountCodePattern.FindStringSubmatch(code)
	if m == nil {
		return 0, ErrUnresolvableRef
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, ErrUnresolvableRef
	}
	return AccountCode(n), nil
}
