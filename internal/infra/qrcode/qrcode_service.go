// Package qrcode generates farmer share cards: QR codes other farmers scan
// to look up a profile and compare conditions.
package qrcode

import (
	"encoding/json"
	"fmt"

	"agrinet/internal/domain/service"

	"github.com/skip2/go-qrcode"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	baseURL              string
}

// ShareCardData represents the QR code payload structure
type ShareCardData struct {
	FarmerID   string `json:"farmer_id"`
	Type       string `json:"type"`
	ProfileURL string `json:"profile_url,omitempty"`
}

// shareCardType tags the payload so unrelated QR codes are rejected on parse.
const shareCardType = "share_card"

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel, baseURL string) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
		baseURL:              baseURL,
	}
}

// GenerateShareCard generates a PNG QR code encoding the farmer's profile
// reference.
func (s *qrcodeService) GenerateShareCard(farmerID string) ([]byte, error) {
	data := ShareCardData{
		FarmerID: farmerID,
		Type:     shareCardType,
	}
	if s.baseURL != "" {
		data.ProfileURL = fmt.Sprintf("%s/farmers/%s", s.baseURL, farmerID)
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR code data: %w", err)
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

// ParseShareCard parses QR code payload data and returns the farmer ID
func (s *qrcodeService) ParseShareCard(qrData string) (string, error) {
	var data ShareCardData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return "", fmt.Errorf("failed to unmarshal QR code data: %w", err)
	}

	if data.Type != shareCardType {
		return "", fmt.Errorf("invalid QR code type: %s", data.Type)
	}

	if data.FarmerID == "" {
		return "", fmt.Errorf("QR code is missing the farmer ID")
	}

	return data.FarmerID, nil
}
