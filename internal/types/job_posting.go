package types

// JobPosting is a job offer scraped from a job board.
// JSON keys match the snapshots already written by the scraper so old datasets stay readable.
type JobPosting struct {
	URN          string   `json:"urn"`
	ID           string   `json:"id"`
	Title        string   `json:"puesto"`
	URL          string   `json:"enlace"`
	Location     string   `json:"lugar"`
	CreatedAt    string   `json:"fecha_creacion,omitempty"`  // raw datetime attribute, e.g. 2024-05-10
	RelativeTime string   `json:"tiempo_relativo,omitempty"` // display string, e.g. "hace 3 horas"
	Employer     Employer `json:"empresa"`
}

// Employer describes the company behind a posting.
type Employer struct {
	LogoURL    string `json:"logo,omitempty"`
	ProfileURL string `json:"enlace_empresa,omitempty"`
	Name       string `json:"nombre"`
}

// Kind implements Record.
func (JobPosting) Kind() RecordKind { return KindJobPosting }

// Ref implements Record.
func (j JobPosting) Ref() string {
	if j.URL != "" {
		return j.URL
	}
	return j.ID
}
