package permitapimodels

import (
	"time"

	"cpsms-backend/models"
	apimodels "cpsms-backend/models/api"
	dbmodels "cpsms-backend/models/db"
)

type PermitCreateData struct {
	Description  string `json:"description"`
	PpeChecklist string `json:"ppe_checklist"`
}

func (r PermitCreateData) Validate() error {
	fields := map[string][]string{}
	if len(r.Description) < 10 {
		fields["description"] = append(fields["description"], "Description must be at least 10 characters.")
	}
	if len(r.PpeChecklist) < 5 {
		fields["ppe_checklist"] = append(fields["ppe_checklist"], "PPE checklist must be at least 5 characters.")
	}
	if len(fields) > 0 {
		return apimodels.NewValidationError(fields)
	}
	return nil
}

type PermitDecisionData struct {
	Decision       models.PermitStatus `json:"decision"` // Approved/Rejected
	NotificationID string              `json:"notification_id"`
}

func (r PermitDecisionData) Validate() error {
	if !r.Decision.IsDecision() {
		return apimodels.NewValidationError(map[string][]string{
			"decision": {"Decision must be Approved or Rejected."},
		})
	}
	return nil
}

type StatusEventView struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	UpdatedBy string    `json:"updated_by"`
}

type PermitView struct {
	ID            string              `json:"id"`
	Description   string              `json:"description"`
	PpeChecklist  string              `json:"ppe_checklist"`
	RiskLevel     models.RiskLevel    `json:"risk_level"`
	Justification string              `json:"justification"`
	Lat           float64             `json:"lat"`
	Lng           float64             `json:"lng"`
	QrCodeURL     string              `json:"qr_code_url"`
	Status        models.PermitStatus `json:"status"`
	IssuedByID    string              `json:"issued_by_id"`
	IssuedBy      string              `json:"issued_by"`
	ApprovedBy    string              `json:"approved_by,omitempty"`
	IssueDate     time.Time           `json:"issue_date"`
	ValidUntil    time.Time           `json:"valid_until"`
	StatusHistory []StatusEventView   `json:"status_history"`
}

func PermitConvert(rec dbmodels.Permit) PermitView {
	view := PermitView{
		ID:            rec.ID,
		Description:   rec.Description,
		PpeChecklist:  rec.PpeChecklist,
		RiskLevel:     rec.RiskLevel,
		Justification: rec.Justification,
		Lat:           rec.Lat,
		Lng:           rec.Lng,
		QrCodeURL:     rec.QrCodeURL,
		Status:        rec.Status,
		IssuedByID:    rec.IssuedByID,
		IssuedBy:      rec.IssuedByName,
		IssueDate:     rec.IssueDate,
		ValidUntil:    rec.ValidUntil,
		StatusHistory: make([]StatusEventView, 0, len(rec.StatusEvents)),
	}
	if rec.ApprovedBy != nil {
		view.ApprovedBy = *rec.ApprovedBy
	}
	for _, event := range rec.StatusEvents {
		view.StatusHistory = append(view.StatusHistory, StatusEventView{
			Status:    event.Status,
			Timestamp: event.CreatedAt,
			UpdatedBy: event.UpdatedBy,
		})
	}
	return view
}
