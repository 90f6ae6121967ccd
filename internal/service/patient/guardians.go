package patient

import "github.com/immunet/immunet-backend/internal/domain"

// ValidateGuardianSet checks a child's proposed guardian set and fills in
// missing slots. A guardian without an explicit slot lands in the
// LEGAL_GUARDIAN slot; callers that attach two parents must say which parent
// slot each one takes. At most one guardian may occupy each slot; the first
// collision is reported as a DuplicateSlotError on that slot. The input slice
// is not modified.
func ValidateGuardianSet(guardians []GuardianInput) ([]GuardianInput, error) {
	resolved := make([]GuardianInput, len(guardians))
	seen := make(map[domain.RelationshipSlot]bool, len(guardians))

	for i, g := range guardians {
		slot := g.Slot
		if slot == "" {
			slot = domain.SlotLegalGuardian
		}
		if seen[slot] {
			return nil, &domain.DuplicateSlotError{Slot: slot}
		}
		seen[slot] = true

		g.Slot = slot
		resolved[i] = g
	}

	return resolved, nil
}
