package models

type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

func (r RiskLevel) IsValid() bool {
	return r == RiskLevelLow || r == RiskLevelMedium || r == RiskLevelHigh
}

type PermitStatus string

const (
	PermitStatusPending  PermitStatus = "Pending"
	PermitStatusApproved PermitStatus = "Approved"
	PermitStatusRejected PermitStatus = "Rejected"
)

// AllowDecide - решение допустимо только по наряду в ожидании,
// Approved/Rejected терминальные
func (s PermitStatus) AllowDecide() bool {
	return s == PermitStatusPending
}

func (s PermitStatus) IsDecision() bool {
	return s == PermitStatusApproved || s == PermitStatusRejected
}

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "Pending"
	RequestStatusApproved RequestStatus = "Approved"
	RequestStatusRejected RequestStatus = "Rejected"
)

func (s RequestStatus) AllowDecide() bool {
	return s == RequestStatusPending
}

func (s RequestStatus) IsDecision() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

// значения событий в истории статусов
const (
	HistoryEventCreated   = "Created"
	HistoryEventRequested = "Requested"
)

type Department string

const (
	DepartmentSafety        Department = "Safety"
	DepartmentFireAndSafety Department = "Fire and Safety"
	DepartmentSecurity      Department = "Security"
	DepartmentOperations    Department = "Operations"
	DepartmentMaintenance   Department = "Maintenance"
)

// PermitApproverDepartments - подразделения, сотрудники которых согласуют наряды
func PermitApproverDepartments() []Department {
	return []Department{DepartmentSafety, DepartmentFireAndSafety}
}

// SecurityDepartments - подразделения охраны, получают информационные копии решений
func SecurityDepartments() []Department {
	return []Department{DepartmentSecurity}
}
