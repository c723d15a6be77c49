package entity

// RecordType identifies which of the three tracked workflows a record belongs to.
type RecordType string

const (
	RecordTypeProcurement   RecordType = "procurement"
	RecordTypeHonoraria     RecordType = "honoraria"
	RecordTypeTravelVoucher RecordType = "travel_voucher"
)

var validRecordTypes = map[RecordType]bool{
	RecordTypeProcurement:   true,
	RecordTypeHonoraria:     true,
	RecordTypeTravelVoucher: true,
}

// IsValid returns true if the record type is one of the three tracked workflows.
func (t RecordType) IsValid() bool {
	return validRecordTypes[t]
}

// String returns the string representation of the record type.
func (t RecordType) String() string {
	return string(t)
}

// ProjectType classifies which funding program a record belongs to.
type ProjectType string

const (
	ProjectTypeILCDBDWIA    ProjectType = "ILCDB-DWIA"
	ProjectTypeSPARK        ProjectType = "SPARK"
	ProjectTypeTech4EDDTC   ProjectType = "TECH4ED-DTC"
	ProjectTypeProjectClick ProjectType = "PROJECT CLICK"
	ProjectTypeOthers       ProjectType = "OTHERS"
)

var validProjectTypes = map[ProjectType]bool{
	ProjectTypeILCDBDWIA:    true,
	ProjectTypeSPARK:        true,
	ProjectTypeTech4EDDTC:   true,
	ProjectTypeProjectClick: true,
	ProjectTypeOthers:       true,
}

// IsValid returns true if the project type is a known funding program tag.
func (p ProjectType) IsValid() bool {
	return validProjectTypes[p]
}

// Status represents the record-level lifecycle status.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

var validStatuses = map[Status]bool{
	StatusActive:    true,
	StatusCompleted: true,
	StatusArchived:  true,
}

// IsValid returns true if the status is a known lifecycle status.
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}
