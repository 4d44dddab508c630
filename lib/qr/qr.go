package qr

import (
	"encoding/json"
	"net/url"

	"cpsms-backend/models"
)

const imageService = "https://api.qrserver.com/v1/create-qr-code/"

// Payload - содержимое QR-кода наряда или пропуска.
// Для пропуска уровень риска отсутствует.
type Payload struct {
	ID   string           `json:"id"`
	Risk models.RiskLevel `json:"risk,omitempty"`
}

// PermitImageURL - ссылка на изображение QR-кода наряда
func PermitImageURL(permitID string, riskLevel models.RiskLevel) string {
	return imageURL(Payload{ID: permitID, Risk: riskLevel})
}

// VisitorImageURL - ссылка на изображение QR-кода пропуска
func VisitorImageURL(visitorID string) string {
	return imageURL(Payload{ID: visitorID})
}

func imageURL(payload Payload) string {
	data, _ := json.Marshal(payload)
	return imageService + "?size=200x200&data=" + url.QueryEscape(string(data))
}

// ParsePayload разбирает отсканированное содержимое QR-кода
func ParsePayload(data string) (Payload, error) {
	payload := Payload{}
	err := json.Unmarshal([]byte(data), &payload)
	if err != nil {
		return Payload{}, err
	}
	return payload, nil
}
