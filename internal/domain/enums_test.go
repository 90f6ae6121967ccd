package domain

import "testing"

func TestEntityState_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state EntityState
		want  bool
	}{
		{EntityStateActive, true},
		{EntityStateInactive, true},
		{EntityState("DELETED"), false},
		{EntityState(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			t.Parallel()
			if got := tt.state.IsValid(); got != tt.want {
				t.Errorf("EntityState(%q).IsValid() = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}

func TestRelationshipSlot_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		slot RelationshipSlot
		want bool
	}{
		{SlotParent1, true},
		{SlotParent2, true},
		{SlotLegalGuardian, true},
		{RelationshipSlot("PARENT_3"), false},
		{RelationshipSlot(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.slot), func(t *testing.T) {
			t.Parallel()
			if got := tt.slot.IsValid(); got != tt.want {
				t.Errorf("RelationshipSlot(%q).IsValid() = %v, want %v", tt.slot, got, tt.want)
			}
		})
	}
}

func TestEntityType_IsValid(t *testing.T) {
	t.Parallel()

	valid := []EntityType{
		EntityTypeCountry, EntityTypeCenter, EntityTypeVaccine, EntityTypeStaff,
		EntityTypeUser, EntityTypeCampaign, EntityTypeChild, EntityTypeGuardian,
		EntityTypeLot, EntityTypeVaccinationEvent, EntityTypeSupply,
		EntityTypeAppointment, EntityTypeCampaignAssignment,
	}
	for _, et := range valid {
		if !et.IsValid() {
			t.Errorf("EntityType(%q).IsValid() = false, want true", et)
		}
	}
	if EntityType("TABLE").IsValid() {
		t.Error(`EntityType("TABLE").IsValid() = true, want false`)
	}
}

func TestAuditAction_String(t *testing.T) {
	t.Parallel()
	if got := AuditActionDeactivate.String(); got != "DEACTIVATE" {
		t.Errorf("got %q, want DEACTIVATE", got)
	}
}

func TestGender_IsValid(t *testing.T) {
	t.Parallel()

	if !GenderFemale.IsValid() || !GenderMale.IsValid() || !GenderOther.IsValid() {
		t.Error("expected all declared genders to be valid")
	}
	if Gender("UNKNOWN").IsValid() {
		t.Error(`Gender("UNKNOWN").IsValid() = true, want false`)
	}
}
