package auth

import (
	"time"

	"github.com/artpar/mumblr/internal/core/domain"
)

// =============================================================================
// Entry Authorization
// =============================================================================

// CanViewEntry reports whether the entry may be shown. Readers only see live
// entries; the admin also sees drafts, scheduled and expired ones.
func CanViewEntry(ctx Context, entry domain.Entry, now time.Time) bool {
	if entry.IsLive(now) {
		return true
	}
	return ctx.Authenticated
}

// CanManageEntries reports whether the request may create, edit or delete
// entries.
func CanManageEntries(ctx Context) bool {
	return ctx.Authenticated
}
