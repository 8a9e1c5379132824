package service

// QRCodeService defines the interface for generating farmer share-card QR
// codes.
type QRCodeService interface {
	// GenerateShareCard generates a PNG QR code encoding the farmer's
	// public profile reference.
	GenerateShareCard(farmerID string) ([]byte, error)

	// ParseShareCard parses QR payload data and returns the farmer ID.
	ParseShareCard(qrData string) (string, error)
}
