package domain

import "time"

type EquipmentType string

const (
	EquipmentBasketball EquipmentType = "basketball"
	EquipmentFootball   EquipmentType = "football"
	EquipmentVolleyball EquipmentType = "volleyball"
	EquipmentTennis     EquipmentType = "tennis"
)

// AllEquipmentTypes is the closed set of rentable equipment. Pricing tables
// are validated against it so an unknown type is an error, never a zero rate.
var AllEquipmentTypes = []EquipmentType{
	EquipmentBasketball,
	EquipmentFootball,
	EquipmentVolleyball,
	EquipmentTennis,
}

func (t EquipmentType) IsValid() bool {
	for _, known := range AllEquipmentTypes {
		if t == known {
			return true
		}
	}
	return false
}

type Condition string

const (
	ConditionExcellent   Condition = "excellent"
	ConditionGood        Condition = "good"
	ConditionFair        Condition = "fair"
	ConditionMaintenance Condition = "maintenance"
)

type Equipment struct {
	ID              uint          `json:"id"`
	Type            EquipmentType `json:"type"`
	Brand           string        `json:"brand,omitempty"`
	Model           string        `json:"model,omitempty"`
	Condition       Condition     `json:"condition"`
	Size            string        `json:"size,omitempty"`
	LastCleanedDate time.Time     `json:"last_cleaned_date"`
	TotalUsageHours float64       `json:"total_usage_hours"`

	// QRCode and NFCTag identify the equipment to the physical unlock
	// hardware. Opaque to this service.
	QRCode string `json:"qr_code"`
	NFCTag string `json:"nfc_tag,omitempty"`
}
