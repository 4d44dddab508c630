package visitorapimodels

import (
	"time"

	"cpsms-backend/models"
	apimodels "cpsms-backend/models/api"
	dbmodels "cpsms-backend/models/db"
)

type VisitorRequestData struct {
	VisitorName       string `json:"visitor_name"`
	VisitorDob        string `json:"visitor_dob"` // YYYY-MM-DD
	Purpose           string `json:"purpose"`
	EmployeeToVisitID string `json:"employee_to_visit_id"`
}

func (r VisitorRequestData) Validate() error {
	fields := map[string][]string{}
	if len(r.VisitorName) < 2 {
		fields["visitor_name"] = append(fields["visitor_name"], "Visitor name must be at least 2 characters.")
	}
	if r.VisitorDob == "" {
		fields["visitor_dob"] = append(fields["visitor_dob"], "Date of birth is required.")
	}
	if r.Purpose == "" {
		fields["purpose"] = append(fields["purpose"], "Purpose of visit cannot be empty.")
	}
	if r.EmployeeToVisitID == "" {
		fields["employee_to_visit_id"] = append(fields["employee_to_visit_id"], "Please select an employee.")
	}
	if len(fields) > 0 {
		return apimodels.NewValidationError(fields)
	}
	return nil
}

type RequestDecisionData struct {
	Decision       models.RequestStatus `json:"decision"` // Approved/Rejected
	NotificationID string               `json:"notification_id"`
}

func (r RequestDecisionData) Validate() error {
	if !r.Decision.IsDecision() {
		return apimodels.NewValidationError(map[string][]string{
			"decision": {"Decision must be Approved or Rejected."},
		})
	}
	return nil
}

type RequestStatusEventView struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	UpdatedBy   string    `json:"updated_by"`
	UpdatedByID string    `json:"updated_by_id"`
}

type VisitorRequestView struct {
	ID                  string                   `json:"id"`
	VisitorName         string                   `json:"visitor_name"`
	VisitorDob          string                   `json:"visitor_dob"`
	Purpose             string                   `json:"purpose"`
	EmployeeToVisitID   string                   `json:"employee_to_visit_id"`
	EmployeeToVisitName string                   `json:"employee_to_visit_name"`
	RequestedByID       string                   `json:"requested_by_id"`
	Status              models.RequestStatus     `json:"status"`
	Timestamp           time.Time                `json:"timestamp"`
	GeneratedVisitorID  string                   `json:"generated_visitor_id,omitempty"`
	StatusHistory       []RequestStatusEventView `json:"status_history"`
}

func VisitorRequestConvert(rec dbmodels.VisitorRequest) VisitorRequestView {
	view := VisitorRequestView{
		ID:                  rec.ID,
		VisitorName:         rec.VisitorName,
		VisitorDob:          rec.VisitorDob,
		Purpose:             rec.Purpose,
		EmployeeToVisitID:   rec.EmployeeToVisitID,
		EmployeeToVisitName: rec.EmployeeToVisitName,
		RequestedByID:       rec.RequestedByID,
		Status:              rec.Status,
		Timestamp:           rec.CreatedAt,
		StatusHistory:       make([]RequestStatusEventView, 0, len(rec.StatusEvents)),
	}
	if rec.GeneratedVisitorID != nil {
		view.GeneratedVisitorID = *rec.GeneratedVisitorID
	}
	for _, event := range rec.StatusEvents {
		view.StatusHistory = append(view.StatusHistory, RequestStatusEventView{
			Status:      event.Status,
			Timestamp:   event.CreatedAt,
			UpdatedBy:   event.UpdatedBy,
			UpdatedByID: event.UpdatedByID,
		})
	}
	return view
}

type VisitorView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Dob        string    `json:"dob"`
	QrCodeURL  string    `json:"qr_code_url"`
	EntryTime  time.Time `json:"entry_time"`
	ValidUntil time.Time `json:"valid_until"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
}

func VisitorConvert(rec dbmodels.Visitor) VisitorView {
	return VisitorView{
		ID:         rec.ID,
		Name:       rec.Name,
		Dob:        rec.Dob,
		QrCodeURL:  rec.QrCodeURL,
		EntryTime:  rec.EntryTime,
		ValidUntil: rec.ValidUntil,
		Lat:        rec.Lat,
		Lng:        rec.Lng,
	}
}
