package models

import (
	"fmt"
	"strings"
)

type NotificationType string

const (
	NotificationVisitorRequest     NotificationType = "visitor_request"
	NotificationPermitApproval     NotificationType = "permit_approval"
	NotificationPermitStatusUpdate NotificationType = "permit_status_update"
)

// NotificationData - заголовок и текст события для рассылки получателям.
// Тексты продуктовые, на языке заказчика.
type NotificationData struct {
	Type        NotificationType
	Title       string
	Description string
}

func shortNumber(number string) string {
	return shortText(number, 4)
}

// обрезаем по рунам, описание приходит от пользователя и может содержать не-ASCII
func shortText(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// GetPermitReviewNotification - наряд создан, требуется согласование
func GetPermitReviewNotification(riskLevel RiskLevel, permitNumber, issuerName string) NotificationData {
	risk := strings.ToUpper(string(riskLevel)[:1]) + string(riskLevel)[1:]
	return NotificationData{
		Type:        NotificationPermitApproval,
		Title:       fmt.Sprintf("%s Risk Permit Review", risk),
		Description: fmt.Sprintf("Permit #%s from %s requires approval.", shortNumber(permitNumber), issuerName),
	}
}

// GetPermitDecidedIssuerNotification - решение по наряду для его автора
func GetPermitDecidedIssuerNotification(permitNumber, description string, decision PermitStatus, approverName string) NotificationData {
	return NotificationData{
		Type:        NotificationPermitStatusUpdate,
		Title:       fmt.Sprintf("Permit #%s was %s", shortNumber(permitNumber), decision),
		Description: fmt.Sprintf("Your permit for %q was %s by %s.", shortText(description, 30), strings.ToLower(string(decision)), approverName),
	}
}

// GetPermitDecidedSecurityNotification - информационная копия решения для охраны
func GetPermitDecidedSecurityNotification(permitNumber, description string, decision PermitStatus, approverName string) NotificationData {
	return NotificationData{
		Type:        NotificationPermitStatusUpdate,
		Title:       fmt.Sprintf("Permit %s: #%s", decision, shortNumber(permitNumber)),
		Description: fmt.Sprintf("Permit #%s for %q was %s by %s.", shortNumber(permitNumber), shortText(description, 30), strings.ToLower(string(decision)), approverName),
	}
}

// GetVisitorRequestNotification - запрос пропуска для посещаемого сотрудника
func GetVisitorRequestNotification(visitorName, requesterName string) NotificationData {
	return NotificationData{
		Type:        NotificationVisitorRequest,
		Title:       "Visitor Pass Request",
		Description: fmt.Sprintf("%s is requesting a pass to visit you. This was requested by %s (Security).", visitorName, requesterName),
	}
}

// GetVisitorRequestDecidedNotification - итог по запросу пропуска для охраны,
// на согласовании дополняется номером выданного пропуска
func GetVisitorRequestDecidedNotification(visitorName, employeeName string, decision RequestStatus, approverName, visitorNumber string) NotificationData {
	visitorNote := ""
	if visitorNumber != "" {
		visitorNote = fmt.Sprintf(" The new Visitor ID is %s.", visitorNumber)
	}
	return NotificationData{
		Type:        NotificationPermitStatusUpdate,
		Title:       fmt.Sprintf("Visitor Request %s", decision),
		Description: fmt.Sprintf("The request for visitor %q to see %s has been %s by %s.%s", visitorName, employeeName, strings.ToLower(string(decision)), approverName, visitorNote),
	}
}
