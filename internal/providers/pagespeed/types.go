package pagespeed

// Report is the provider's raw response shape, reduced to the substructures
// the normalizer reads.
type Report struct {
	LoadingExperience LoadingExperience `json:"loadingExperience"`
	LighthouseResult  LighthouseResult  `json:"lighthouseResult"`
}

// LoadingExperience carries real-user field data. Metrics is empty when the
// provider has no field data for the URL.
type LoadingExperience struct {
	Metrics map[string]FieldMetric `json:"metrics"`
}

// FieldMetric is one real-user percentile measurement.
type FieldMetric struct {
	Percentile *float64 `json:"percentile"`
	Category   string   `json:"category"`
}

// LighthouseResult carries the lab simulation: a flat audits map and the
// per-category scores with their audit references.
type LighthouseResult struct {
	Audits     map[string]Audit    `json:"audits"`
	Categories map[string]Category `json:"categories"`
}

// Audit is one entry of the flat audits map.
type Audit struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Score            *float64       `json:"score"`
	ScoreDisplayMode string         `json:"scoreDisplayMode"`
	NumericValue     *float64       `json:"numericValue"`
	Details          map[string]any `json:"details"`
}

// Category is one scored category with the audits it references.
type Category struct {
	Score     *float64   `json:"score"`
	AuditRefs []AuditRef `json:"auditRefs"`
}

// AuditRef points into the flat audits map by audit key.
type AuditRef struct {
	ID string `json:"id"`
}
