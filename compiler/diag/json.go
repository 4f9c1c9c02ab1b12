package diag

import "encoding/json"

// Report is the JSON envelope for a validation run
type Report struct {
	Status      string  `json:"status"`
	Diagnostics List    `json:"diagnostics"`
	Summary     Summary `json:"summary"`
}

// Summary contains per-severity counts
type Summary struct {
	FatalCount   int `json:"fatal_count"`
	ErrorCount   int `json:"error_count"`
	WarningCount int `json:"warning_count"`
	InfoCount    int `json:"info_count"`
	TotalCount   int `json:"total_count"`
}

// NewReport builds a Report from a diagnostics list. Status is
// "success" when nothing at error severity or above is present,
// "warning" when only warnings are, "error" otherwise.
func NewReport(diags List) Report {
	summary := Summary{
		FatalCount:   diags.Count(Fatal),
		ErrorCount:   diags.Count(Error),
		WarningCount: diags.Count(Warning),
		InfoCount:    diags.Count(Info),
		TotalCount:   len(diags),
	}

	status := "success"
	if summary.FatalCount > 0 || summary.ErrorCount > 0 {
		status = "error"
	} else if summary.WarningCount > 0 {
		status = "warning"
	}

	if diags == nil {
		diags = List{}
	}
	return Report{
		Status:      status,
		Diagnostics: diags,
		Summary:     summary,
	}
}

// FormatAsJSON renders the report as indented JSON
func (r Report) FormatAsJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
