package doctor

// Status is the outcome of a single check
type Status string

const (
	StatusOK    Status = "ok"
	StatusWarn  Status = "warning"
	StatusError Status = "error"
)

// Check is one diagnostic result
type Check struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
	Detail string `json:"detail"`
	Hint   string `json:"hint,omitempty"`
}

// Report contains all diagnostic results
type Report struct {
	Checks  []Check `json:"checks"`
	Summary Summary `json:"summary"`
}

// Summary contains overall health metrics
type Summary struct {
	WarningsCount int    `json:"warnings"`
	ErrorsCount   int    `json:"errors"`
	HealthStatus  string `json:"health_status"` // GOOD, FAIR, POOR
}

func (r *Report) add(c Check) {
	r.Checks = append(r.Checks, c)
}

func (r *Report) buildSummary() {
	r.Summary = Summary{}
	for _, c := range r.Checks {
		switch c.Status {
		case StatusWarn:
			r.Summary.WarningsCount++
		case StatusError:
			r.Summary.ErrorsCount++
		}
	}

	switch {
	case r.Summary.ErrorsCount > 0:
		r.Summary.HealthStatus = "POOR"
	case r.Summary.WarningsCount > 0:
		r.Summary.HealthStatus = "FAIR"
	default:
		r.Summary.HealthStatus = "GOOD"
	}
}
