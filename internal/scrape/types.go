// Package scrape implements the extraction and crawl-control core of the
// Freshersworld job scraper: link discovery, pagination inference, per-field
// extraction with fallback chains, record merging, and the controller state
// machine that decides what gets fetched next.
package scrape

// TargetKind labels a crawl target as a search-result page or a job page.
type TargetKind string

const (
	// KindListing marks a paginated search-result page.
	KindListing TargetKind = "LISTING"
	// KindDetail marks a single job-posting page.
	KindDetail TargetKind = "DETAIL"
)

// SearchQuery carries the free-text search parameters used to seed the
// initial listing URL. All fields are optional.
type SearchQuery struct {
	Keyword       string
	Location      string
	Category      string
	Experience    string
	Qualification string
}

// CrawlTarget is one unit of fetch work. It is created when enqueued,
// consumed exactly once by the fetch engine, and never mutated afterwards.
// PageNumber and BaseListingURL are only meaningful for LISTING targets.
type CrawlTarget struct {
	URL            string
	Kind           TargetKind
	PageNumber     int
	BaseListingURL string
}

// PartialJobRecord is one extractor's view of a job posting. Absence of
// information is always the empty string, never a missing key, so the merger
// can treat "empty" uniformly as "no information".
type PartialJobRecord struct {
	Title           string
	Company         string
	CompanyLogo     string
	Location        string
	Salary          string
	Experience      string
	Qualification   string
	JobType         string
	Skills          string
	Industry        string
	DatePosted      string
	ValidThrough    string
	DescriptionHTML string
	ApplyLink       string
}

// JobRecord is the persisted record shape: the merged field set plus the
// derived plain-text description and the canonical detail-page URL.
// A JobRecord always has a non-empty Title; records without one are rejected
// by Merge and never reach a sink.
type JobRecord struct {
	Title           string `json:"title"`
	Company         string `json:"company"`
	CompanyLogo     string `json:"company_logo"`
	Location        string `json:"location"`
	Salary          string `json:"salary"`
	Experience      string `json:"experience"`
	Qualification   string `json:"qualification"`
	JobType         string `json:"job_type"`
	Skills          string `json:"skills"`
	Industry        string `json:"industry"`
	DatePosted      string `json:"date_posted"`
	ValidThrough    string `json:"valid_through"`
	DescriptionHTML string `json:"description_html"`
	DescriptionText string `json:"description_text"`
	ApplyLink       string `json:"apply_link"`
	URL             string `json:"url"`
	Source          string `json:"source"`
}
