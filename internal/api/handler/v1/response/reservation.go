package response

// SweepResult reports how many reservations the on-demand no-show sweep
// expired.
type SweepResult struct {
	Expired int `json:"expired"`
}
