package metrics

// Status distinguishes the ways a query can come back without data. Callers
// render absence however they like; the engine never raises.
type Status int

const (
	// StatusOK means the query produced a result.
	StatusOK Status = iota

	// StatusNoDataset means the dataset failed to load or has no rows.
	StatusNoDataset

	// StatusNoColumn means a requested column is not in the table.
	StatusNoColumn
)

// String returns a short label for logging.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoDataset:
		return "no dataset"
	case StatusNoColumn:
		return "no column"
	default:
		return "unknown"
	}
}
