package models

type UserRole string

const (
	EmployeeRole UserRole = "EMPLOYEE_ROLE"
	VisitorRole  UserRole = "VISITOR_ROLE"
)

var roleHumanName = map[UserRole]string{
	EmployeeRole: "Сотрудник",
	VisitorRole:  "Посетитель",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

const SystemUser = "Система"
