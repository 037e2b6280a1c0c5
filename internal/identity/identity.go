// Package identity defines the authenticated caller passed into the
// pipeline. Identities are supplied by the surrounding service's
// authentication layer; this package only reads them.
package identity

import (
	"fmt"
	"strings"
	"time"
)

// Tier is a caller's authorization class.
type Tier string

const (
	TierAdmin    Tier = "ADMIN"
	TierVIP      Tier = "VIP"
	TierStandard Tier = "STANDARD"
)

// ParseTier converts a case-insensitive tier name into a Tier.
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToUpper(s)) {
	case TierAdmin:
		return TierAdmin, nil
	case TierVIP:
		return TierVIP, nil
	case TierStandard:
		return TierStandard, nil
	}
	return "", fmt.Errorf("unknown tier %q", s)
}

// Identity describes an authenticated caller.
type Identity struct {
	ID          string
	Email       string
	DisplayName string
	Tier        Tier

	// ElevatedDownload permits original-document download. It is set
	// independently of Tier: an admin is not automatically flagged.
	ElevatedDownload bool

	// TierExpiresAt is the optional expiry of the current tier.
	TierExpiresAt *time.Time
}

// Label returns the name used in watermarks: the display name when set,
// otherwise the local part of the email address.
func (id Identity) Label() string {
	if id.DisplayName != "" {
		return id.DisplayName
	}
	return id.Username()
}

// Username returns the local part of the identity's email address.
func (id Identity) Username() string {
	if at := strings.Index(id.Email, "@"); at > 0 {
		return id.Email[:at]
	}
	return id.Email
}
