package storage

import "time"

// User is the owner of health records. The id comes from the external
// identity provider.
type User struct {
	ID            string
	WalletAddress *string
	Email         *string
	CreatedAt     time.Time
}

// HealthRecord is a persisted diagnosis.
type HealthRecord struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	Diagnosis     string    `json:"diagnosis"`
	RiskLevel     string    `json:"risk_level"`
	Summary       *string   `json:"summary"`
	IPFSHash      *string   `json:"ipfs_hash"`
	IPFSURL       *string   `json:"ipfs_url"`
	TxHash        *string   `json:"tx_hash"`
	TxSimulated   bool      `json:"tx_simulated"`
	WellnessScore *int      `json:"wellness_score"`
	CreatedAt     time.Time `json:"created_at"`
}

// HealthRecordDetails holds the list fields of a record. Arrays are stored
// as JSON text.
type HealthRecordDetails struct {
	ID             string    `json:"id"`
	HealthRecordID string    `json:"health_record_id"`
	PossibleCauses []string  `json:"possible_causes"`
	Suggestions    []string  `json:"suggestions"`
	CreatedAt      time.Time `json:"created_at"`
}

// RecordPatch lists the record columns an update may change. Nil fields are
// left untouched.
type RecordPatch struct {
	Title         *string
	Diagnosis     *string
	RiskLevel     *string
	Summary       *string
	IPFSHash      *string
	IPFSURL       *string
	TxHash        *string
	TxSimulated   *bool
	WellnessScore *int
}

// Empty reports whether the patch changes nothing.
func (p RecordPatch) Empty() bool {
	return p.Title == nil && p.Diagnosis == nil && p.RiskLevel == nil &&
		p.Summary == nil && p.IPFSHash == nil && p.IPFSURL == nil &&
		p.TxHash == nil && p.TxSimulated == nil && p.WellnessScore == nil
}

// IoTReading is one wearable telemetry sample.
type IoTReading struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	HeartRate   *int      `json:"heart_rate"`
	Steps       *int      `json:"steps"`
	Temperature *float64  `json:"temperature"`
	SleepHours  *float64  `json:"sleep_hours"`
	BloodOxygen *int      `json:"blood_oxygen"`
	CreatedAt   time.Time `json:"created_at"`
}
