// Package dialogue runs the multi-turn booking conversation.
package dialogue

import (
	"strconv"

	"github.com/serenetouch/booking-assistant/internal/intent"
)

// Memory slot keys. Unknown keys are carried through untouched so callers
// can stash their own state alongside ours.
const (
	keyUserID              = "user_id"
	keyPendingService      = "pending_service"
	keyPendingRescheduleID = "pending_reschedule_id"
	keyAwaitingBookingID   = "awaiting_booking_id"
	keyPending             = "pending"
)

// Values of the awaiting_booking_id slot.
const (
	AwaitCancel     = "cancel"
	AwaitReschedule = "reschedule"
)

// Memory is the conversation's per-user state bag, threaded through each
// turn by the caller.
type Memory map[string]string

// Clone returns an independent copy so turn handling never mutates the
// caller's view in place.
func (m Memory) Clone() Memory {
	out := make(Memory, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// View projects the slots the intent resolver reads.
func (m Memory) View() intent.MemoryView {
	_, hasReschedule := m.PendingRescheduleID()
	return intent.MemoryView{
		PendingService:       m.PendingService(),
		HasPendingReschedule: hasReschedule,
		AwaitingBookingID:    m.AwaitingBookingID(),
		Pending:              m[keyPending],
	}
}

func (m Memory) UserID() string { return m[keyUserID] }

// SetUserID records which user this memory belongs to.
func (m Memory) SetUserID(id string) { m[keyUserID] = id }

func (m Memory) PendingService() string     { return m[keyPendingService] }
func (m Memory) SetPendingService(s string) { m[keyPendingService] = s }
func (m Memory) ClearPendingService()       { delete(m, keyPendingService) }

// PendingRescheduleID is the appointment waiting for a new time.
func (m Memory) PendingRescheduleID() (int64, bool) {
	raw, ok := m[keyPendingRescheduleID]
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (m Memory) SetPendingRescheduleID(id int64) {
	m[keyPendingRescheduleID] = strconv.FormatInt(id, 10)
}
func (m Memory) ClearPendingRescheduleID() { delete(m, keyPendingRescheduleID) }

// AwaitingBookingID reports which action is waiting for a reference.
func (m Memory) AwaitingBookingID() string        { return m[keyAwaitingBookingID] }
func (m Memory) SetAwaitingBookingID(kind string) { m[keyAwaitingBookingID] = kind }
func (m Memory) ClearAwaitingBookingID()          { delete(m, keyAwaitingBookingID) }

// Pending is the legacy confirm-driven reschedule slot.
func (m Memory) Pending() string { return m[keyPending] }
func (m Memory) ClearPending()   { delete(m, keyPending) }
