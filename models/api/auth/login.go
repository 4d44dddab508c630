package authapimodels

import (
	apimodels "cpsms-backend/models/api"
)

type EmployeeLoginData struct {
	EmployeeID string `json:"employee_id"` // табельный номер
	Dob        string `json:"dob"`         // YYYY-MM-DD
}

func (r EmployeeLoginData) Validate() error {
	fields := map[string][]string{}
	if r.EmployeeID == "" {
		fields["employee_id"] = append(fields["employee_id"], "Employee ID is required.")
	}
	if r.Dob == "" {
		fields["dob"] = append(fields["dob"], "Date of birth is required.")
	}
	if len(fields) > 0 {
		return apimodels.NewValidationError(fields)
	}
	return nil
}

type VisitorLoginData struct {
	VisitorID string `json:"visitor_id"`
	Dob       string `json:"dob"`
}

func (r VisitorLoginData) Validate() error {
	fields := map[string][]string{}
	if r.VisitorID == "" {
		fields["visitor_id"] = append(fields["visitor_id"], "Visitor ID is required.")
	}
	if r.Dob == "" {
		fields["dob"] = append(fields["dob"], "Date of birth is required.")
	}
	if len(fields) > 0 {
		return apimodels.NewValidationError(fields)
	}
	return nil
}

type RefreshData struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenView struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Department   string `json:"department,omitempty"`
}
