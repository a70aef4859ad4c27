package scrape

import "errors"

// SourceSite tags every persisted record with the site it came from.
const SourceSite = "freshersworld.com"

// ErrNoTitle signals that neither extractor produced a title; such records
// are dropped, never persisted.
var ErrNoTitle = errors.New("no title extracted")

// Merge combines the structured and markup partial records field by field,
// preferring the structured value when non-empty. A nil structured record is
// treated as all-empty. The plain-text description is derived from the
// merged rich-text description, and the apply link falls back to the page
// URL itself.
func Merge(structured *PartialJobRecord, markup PartialJobRecord, pageURL string) (JobRecord, error) {
	if structured == nil {
		structured = &PartialJobRecord{}
	}
	record := JobRecord{
		Title:           prefer(structured.Title, markup.Title),
		Company:         prefer(structured.Company, markup.Company),
		CompanyLogo:     prefer(structured.CompanyLogo, markup.CompanyLogo),
		Location:        prefer(structured.Location, markup.Location),
		Salary:          prefer(structured.Salary, markup.Salary),
		Experience:      prefer(structured.Experience, markup.Experience),
		Qualification:   prefer(structured.Qualification, markup.Qualification),
		JobType:         prefer(structured.JobType, markup.JobType),
		Skills:          prefer(structured.Skills, markup.Skills),
		Industry:        prefer(structured.Industry, markup.Industry),
		DatePosted:      prefer(structured.DatePosted, markup.DatePosted),
		ValidThrough:    prefer(structured.ValidThrough, markup.ValidThrough),
		DescriptionHTML: prefer(structured.DescriptionHTML, markup.DescriptionHTML),
		ApplyLink:       prefer(prefer(structured.ApplyLink, markup.ApplyLink), pageURL),
		URL:             pageURL,
		Source:          SourceSite,
	}
	record.DescriptionText = PlainText(record.DescriptionHTML)
	if record.Title == "" {
		return JobRecord{}, ErrNoTitle
	}
	return record, nil
}

func prefer(primary, fallback string) string {
	if primary != "" {
		return primary
	}
	return fallback
}
