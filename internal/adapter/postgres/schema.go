package postgres

import "github.com/immunet/immunet-backend/internal/domain"

// EntityTable describes where an entity type lives and whether its rows
// carry a state column for soft-deactivation.
type EntityTable struct {
	Table    string
	HasState bool
}

// Dependency is one foreign-key edge pointing at an entity type.
type Dependency struct {
	Table  string
	Column string
}

// entityTables maps every entity type to its backing table. All identifiers
// below are compile-time constants; they are the only table/column names
// ever interpolated into SQL text.
var entityTables = map[domain.EntityType]EntityTable{
	domain.EntityTypeCountry:            {Table: "countries"},
	domain.EntityTypeCenter:             {Table: "health_centers", HasState: true},
	domain.EntityTypeVaccine:            {Table: "vaccines"},
	domain.EntityTypeStaff:              {Table: "staff"},
	domain.EntityTypeUser:               {Table: "users"},
	domain.EntityTypeCampaign:           {Table: "campaigns"},
	domain.EntityTypeChild:              {Table: "children", HasState: true},
	domain.EntityTypeGuardian:           {Table: "guardians"},
	domain.EntityTypeLot:                {Table: "vaccine_lots"},
	domain.EntityTypeVaccinationEvent:   {Table: "vaccination_events"},
	domain.EntityTypeSupply:             {Table: "supplies"},
	domain.EntityTypeAppointment:        {Table: "appointments"},
	domain.EntityTypeCampaignAssignment: {Table: "campaign_assignments"},
}

// dependencyIndex enumerates, per entity type, every table holding a foreign
// key to it. The lifecycle manager probes these before any delete; adding a
// referencing table to the schema means adding its edge here.
var dependencyIndex = map[domain.EntityType][]Dependency{
	domain.EntityTypeCountry: {
		{Table: "children", Column: "nationality_id"},
		{Table: "children", Column: "birth_country_id"},
		{Table: "guardians", Column: "nationality_id"},
	},
	domain.EntityTypeCenter: {
		{Table: "children", Column: "health_center_id"},
		{Table: "vaccine_lots", Column: "center_id"},
		{Table: "staff", Column: "center_id"},
		{Table: "users", Column: "center_id"},
		{Table: "campaign_assignments", Column: "center_id"},
		{Table: "appointments", Column: "center_id"},
		{Table: "vaccination_events", Column: "center_id"},
		{Table: "supplies", Column: "center_id"},
	},
	domain.EntityTypeVaccine: {
		{Table: "vaccine_lots", Column: "vaccine_id"},
		{Table: "campaigns", Column: "vaccine_id"},
	},
	domain.EntityTypeStaff: {
		{Table: "vaccination_events", Column: "staff_id"},
		{Table: "appointments", Column: "staff_id"},
	},
	domain.EntityTypeUser: {
		{Table: "audit_log", Column: "user_id"},
	},
	domain.EntityTypeCampaign: {
		{Table: "campaign_assignments", Column: "campaign_id"},
	},
	domain.EntityTypeChild: {
		{Table: "guardians", Column: "child_id"},
		{Table: "vaccination_events", Column: "child_id"},
		{Table: "appointments", Column: "child_id"},
	},
	domain.EntityTypeGuardian: {},
	domain.EntityTypeLot: {
		{Table: "vaccination_events", Column: "lot_id"},
	},
	domain.EntityTypeVaccinationEvent:   {},
	domain.EntityTypeSupply:             {},
	domain.EntityTypeAppointment:        {},
	domain.EntityTypeCampaignAssignment: {},
}

// EntityTableFor returns the table metadata for an entity type.
func EntityTableFor(t domain.EntityType) (EntityTable, bool) {
	et, ok := entityTables[t]
	return et, ok
}

// DependenciesFor returns the foreign-key edges pointing at an entity type.
func DependenciesFor(t domain.EntityType) ([]Dependency, bool) {
	deps, ok := dependencyIndex[t]
	return deps, ok
}
