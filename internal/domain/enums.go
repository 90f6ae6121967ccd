package domain

// EntityState marks reference entities as active or soft-deactivated.
// Soft-deactivation keeps the row queryable so historical vaccination and
// audit records never lose their foreign keys.
type EntityState string

const (
	EntityStateActive   EntityState = "ACTIVE"
	EntityStateInactive EntityState = "INACTIVE"
)

func (s EntityState) String() string { return string(s) }

func (s EntityState) IsValid() bool {
	switch s {
	case EntityStateActive, EntityStateInactive:
		return true
	}
	return false
}

// Gender of a registered child.
type Gender string

const (
	GenderFemale Gender = "FEMALE"
	GenderMale   Gender = "MALE"
	GenderOther  Gender = "OTHER"
)

func (g Gender) String() string { return string(g) }

func (g Gender) IsValid() bool {
	switch g {
	case GenderFemale, GenderMale, GenderOther:
		return true
	}
	return false
}

// GuardianRelationship is the declared relation of a guardian to a child.
type GuardianRelationship string

const (
	RelationshipMother        GuardianRelationship = "MOTHER"
	RelationshipFather        GuardianRelationship = "FATHER"
	RelationshipLegalGuardian GuardianRelationship = "LEGAL_GUARDIAN"
)

func (r GuardianRelationship) String() string { return string(r) }

func (r GuardianRelationship) IsValid() bool {
	switch r {
	case RelationshipMother, RelationshipFather, RelationshipLegalGuardian:
		return true
	}
	return false
}

// RelationshipSlot is the fixed guardian position on a child's record.
// A child has at most one guardian per slot.
type RelationshipSlot string

const (
	SlotParent1       RelationshipSlot = "PARENT_1"
	SlotParent2       RelationshipSlot = "PARENT_2"
	SlotLegalGuardian RelationshipSlot = "LEGAL_GUARDIAN"
)

func (s RelationshipSlot) String() string { return string(s) }

func (s RelationshipSlot) IsValid() bool {
	switch s {
	case SlotParent1, SlotParent2, SlotLegalGuardian:
		return true
	}
	return false
}

// EntityType identifies the kind of domain entity. It drives both audit
// attribution and the lifecycle manager's dependency table.
type EntityType string

const (
	EntityTypeCountry            EntityType = "COUNTRY"
	EntityTypeCenter             EntityType = "CENTER"
	EntityTypeVaccine            EntityType = "VACCINE"
	EntityTypeStaff              EntityType = "STAFF"
	EntityTypeUser               EntityType = "USER"
	EntityTypeCampaign           EntityType = "CAMPAIGN"
	EntityTypeChild              EntityType = "CHILD"
	EntityTypeGuardian           EntityType = "GUARDIAN"
	EntityTypeLot                EntityType = "LOT"
	EntityTypeVaccinationEvent   EntityType = "VACCINATION_EVENT"
	EntityTypeSupply             EntityType = "SUPPLY"
	EntityTypeAppointment        EntityType = "APPOINTMENT"
	EntityTypeCampaignAssignment EntityType = "CAMPAIGN_ASSIGNMENT"
)

func (t EntityType) String() string { return string(t) }

func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypeCountry, EntityTypeCenter, EntityTypeVaccine, EntityTypeStaff,
		EntityTypeUser, EntityTypeCampaign, EntityTypeChild, EntityTypeGuardian,
		EntityTypeLot, EntityTypeVaccinationEvent, EntityTypeSupply,
		EntityTypeAppointment, EntityTypeCampaignAssignment:
		return true
	}
	return false
}

// AuditAction is the kind of mutation recorded in the audit log.
type AuditAction string

const (
	AuditActionCreate     AuditAction = "CREATE"
	AuditActionUpdate     AuditAction = "UPDATE"
	AuditActionDelete     AuditAction = "DELETE"
	AuditActionDeactivate AuditAction = "DEACTIVATE"
	AuditActionReplenish  AuditAction = "REPLENISH"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete,
		AuditActionDeactivate, AuditActionReplenish:
		return true
	}
	return false
}

// LifecycleOutcome is the result of a deactivate-or-delete request.
type LifecycleOutcome string

const (
	OutcomeDeleted     LifecycleOutcome = "DELETED"
	OutcomeDeactivated LifecycleOutcome = "DEACTIVATED"
	OutcomeBlocked     LifecycleOutcome = "BLOCKED"
)

func (o LifecycleOutcome) String() string { return string(o) }
