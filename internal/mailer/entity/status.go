package entity

// DeliveryStatus tracks the lifecycle of one delivery attempt.
type DeliveryStatus string

const (
	DeliveryStatusQueued DeliveryStatus = "queued"
	DeliveryStatusSent   DeliveryStatus = "sent"
	DeliveryStatusFailed DeliveryStatus = "failed"
)

// String returns the string form of the status.
func (s DeliveryStatus) String() string {
	return string(s)
}

// ParseDeliveryStatus maps a stored value back to a status. Unknown values
// fall back to queued.
func ParseDeliveryStatus(raw string) DeliveryStatus {
	switch DeliveryStatus(raw) {
	case DeliveryStatusSent:
		return DeliveryStatusSent
	case DeliveryStatusFailed:
		return DeliveryStatusFailed
	default:
		return DeliveryStatusQueued
	}
}
