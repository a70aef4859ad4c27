package scrape

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// Description text must be substantial enough to be real content but not
	// so large that a layout container swallowed the whole page.
	descMinLen = 50
	descMaxLen = 10000

	// fallbackParaMinLen is the floor for the paragraph-scan description
	// fallback.
	fallbackParaMinLen = 100

	shortFieldMaxLen = 200
)

var whitespaceRun = regexp.MustCompile(`\s+`)

var postedDatePattern = regexp.MustCompile(`(?i)Posted[:\s]+([^<>\n]+)`)

// fieldCandidate is one step of a fallback chain: a selector plus a
// content-plausibility check. The first candidate that matches an element
// and passes its check wins; later candidates are fallbacks only.
type fieldCandidate struct {
	selector string
	check    func(string) bool
}

func plausibleText(maxLen int, rejected ...string) func(string) bool {
	return func(text string) bool {
		if text == "" || len(text) > maxLen {
			return false
		}
		for _, marker := range rejected {
			if strings.Contains(text, marker) {
				return false
			}
		}
		return true
	}
}

var (
	titleChain = []fieldCandidate{
		{".seo_title", plausibleTitle},
		{".wrap-title.seo_title", plausibleTitle},
		{".job-new-title .wrap-title", plausibleTitle},
		{"h1.job-title", plausibleTitle},
		{"h1", plausibleTitle},
	}

	companyChain = []fieldCandidate{
		{".latest-jobs-title.company-name", plausibleText(shortFieldMaxLen, "Login", "Employer", "Institute")},
		{"h3.company-name", plausibleText(shortFieldMaxLen, "Login", "Employer", "Institute")},
		// A company-name wrapper around an anchor is navigation, not a name.
		{".company-name:not(:has(a))", plausibleText(shortFieldMaxLen, "Login", "Employer", "Institute")},
	}

	locationChain = []fieldCandidate{
		{".job-location a.bold_font", plausibleText(shortFieldMaxLen)},
		{".job-location", plausibleText(shortFieldMaxLen)},
		{`a.bold_font[href*="jobs-in-"]`, plausibleText(shortFieldMaxLen)},
	}

	experienceChain = []fieldCandidate{
		{".experience.job-details-span", plausibleText(shortFieldMaxLen)},
		{"span.experience", plausibleText(shortFieldMaxLen)},
	}

	salaryChain = []fieldCandidate{
		{".salary-range", plausibleText(shortFieldMaxLen)},
		{`[class*="salary"]`, plausibleText(shortFieldMaxLen)},
		{".ctc", plausibleText(shortFieldMaxLen)},
	}

	qualificationChain = []fieldCandidate{
		{".qualification", plausibleText(shortFieldMaxLen)},
		{`[class*="qualification"]`, plausibleText(shortFieldMaxLen)},
		{`[class*="eligib"]`, plausibleText(shortFieldMaxLen)},
	}

	jobTypeChain = []fieldCandidate{
		{".job-type", plausibleText(shortFieldMaxLen)},
		{`[class*="job-type"]`, plausibleText(shortFieldMaxLen)},
		{`[class*="employment"]`, plausibleText(shortFieldMaxLen)},
	}

	datePostedChain = []fieldCandidate{
		{".posted-date", plausibleText(shortFieldMaxLen)},
		{".date-posted", plausibleText(shortFieldMaxLen)},
		{"time", plausibleText(shortFieldMaxLen)},
		{`[class*="posted"]`, plausibleText(shortFieldMaxLen)},
	}

	industryChain = []fieldCandidate{
		{".industry", plausibleText(shortFieldMaxLen)},
		{`[class*="industry"]`, plausibleText(shortFieldMaxLen)},
	}

	validThroughChain = []fieldCandidate{
		{".deadline", plausibleText(shortFieldMaxLen)},
		{".last-date", plausibleText(shortFieldMaxLen)},
		{`[class*="deadline"]`, plausibleText(shortFieldMaxLen)},
	}

	descriptionSelectors = []string{
		".job-description",
		"#job-description",
		".job-desc",
		".job-content",
		".desc",
		`[class*="description"]`,
	}
)

func plausibleTitle(text string) bool {
	return len(text) > 5 && !strings.Contains(text, "Login") && !strings.Contains(text, "Employer")
}

// firstMatch walks a fallback chain and returns the first element text that
// satisfies its candidate's plausibility check.
func firstMatch(doc *goquery.Document, chain []fieldCandidate) string {
	for _, candidate := range chain {
		var found string
		doc.Find(candidate.selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := collapseSpace(s.Text())
			if candidate.check(text) {
				found = text
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// ExtractMarkup reads the visible HTML of a detail page through the per-field
// fallback chains. It is total: missing data yields empty fields, never an
// error. The document is pruned of navigation chrome in place.
func ExtractMarkup(doc *goquery.Document, pageURL *url.URL) PartialJobRecord {
	doc.Find("header, nav, footer, .header, .footer, .navbar, .menu, .sidebar, script, style").Remove()

	record := PartialJobRecord{
		Title:        firstMatch(doc, titleChain),
		Company:      firstMatch(doc, companyChain),
		Location:     firstMatch(doc, locationChain),
		Experience:   firstMatch(doc, experienceChain),
		DatePosted:   firstMatch(doc, datePostedChain),
		Industry:     firstMatch(doc, industryChain),
		ValidThrough: firstMatch(doc, validThroughChain),
	}

	record.Salary, record.Qualification = extractQualificationBlocks(doc)
	if record.Salary == "" {
		record.Salary = firstMatch(doc, salaryChain)
	}
	if record.Qualification == "" {
		record.Qualification = firstMatch(doc, qualificationChain)
	}

	record.JobType = extractJobType(doc)
	record.Skills = extractSkills(doc)
	if record.DatePosted == "" {
		if m := postedDatePattern.FindStringSubmatch(doc.Text()); m != nil {
			record.DatePosted = collapseSpace(m[1])
		}
	}
	record.DescriptionHTML = extractDescription(doc)
	record.ApplyLink = extractApplyLink(doc, pageURL)
	record.CompanyLogo = extractCompanyLogo(doc, pageURL)
	return record
}

// extractQualificationBlocks reads the .qualifications display blocks: the
// first one is salary when it carries a digit, the second is the
// qualification list.
func extractQualificationBlocks(doc *goquery.Document) (salary, qualification string) {
	blocks := doc.Find(".qualifications.display-block")
	if blocks.Length() == 0 {
		return "", ""
	}
	first := collapseSpace(blocks.First().Text())
	if strings.ContainsAny(first, "0123456789") {
		salary = first
	}
	if blocks.Length() > 1 {
		second := blocks.Eq(1)
		var parts []string
		second.Find(".bold_elig, .elig_pos").Each(func(_ int, s *goquery.Selection) {
			text := collapseSpace(s.Text())
			if text != "" && len(text) < 50 {
				parts = append(parts, text)
			}
		})
		if len(parts) > 0 {
			qualification = strings.Join(parts, ", ")
		} else {
			qualification = collapseSpace(second.Text())
		}
	}
	return salary, qualification
}

func extractJobType(doc *goquery.Document) string {
	if jobType := firstMatch(doc, jobTypeChain); jobType != "" {
		return jobType
	}
	fullText := doc.Text()
	switch {
	case strings.Contains(fullText, "Full Time") || strings.Contains(fullText, "Fulltime"):
		return "Full Time"
	case strings.Contains(fullText, "Part Time") || strings.Contains(fullText, "Parttime"):
		return "Part Time"
	case strings.Contains(fullText, "Contract"):
		return "Contract"
	case strings.Contains(fullText, "Internship"):
		return "Internship"
	case strings.Contains(fullText, "Remote"):
		return "Remote"
	}
	return ""
}

func extractSkills(doc *goquery.Document) string {
	var skills []string
	doc.Find(`.skills-tag, .skill-item, .key-skill, [class*="skill"]`).Each(func(_ int, s *goquery.Selection) {
		skill := collapseSpace(s.Text())
		if len(skill) > 1 && len(skill) < 50 {
			skills = append(skills, skill)
		}
	})
	return strings.Join(skills, ", ")
}

// extractDescription tries the structured description selectors first,
// bounded by text length, then falls back to the first paragraph-like block
// with enough text and no boilerplate. The winning fragment is sanitized.
func extractDescription(doc *goquery.Document) string {
	for _, selector := range descriptionSelectors {
		el := doc.Find(selector).First()
		if el.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(el.Text())
		if len(text) > descMinLen && len(text) < descMaxLen {
			if html, err := el.Html(); err == nil {
				return SanitizeHTML(html)
			}
		}
	}

	var fallback string
	doc.Find("p, div.desc").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if len(text) > fallbackParaMinLen &&
			!strings.Contains(text, "Login") && !strings.Contains(text, "Register") {
			if html, err := s.Html(); err == nil {
				fallback = SanitizeHTML(html)
				return false
			}
		}
		return true
	})
	return fallback
}

func extractApplyLink(doc *goquery.Document, pageURL *url.URL) string {
	href, ok := doc.Find(`a.apply-btn, a[class*="apply"], button[class*="apply"]`).First().Attr("href")
	if !ok {
		doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if strings.Contains(s.Text(), "Apply Now") {
				href, ok = s.Attr("href")
				return !ok
			}
			return true
		})
	}
	if href == "" {
		return ""
	}
	if abs := ResolveAbsolute(href, pageURL); abs != "" {
		return abs
	}
	return href
}

func extractCompanyLogo(doc *goquery.Document, pageURL *url.URL) string {
	src, ok := doc.Find(`img.company-logo, img[class*="company-logo"]`).First().Attr("src")
	if !ok || src == "" {
		return ""
	}
	if abs := ResolveAbsolute(src, pageURL); abs != "" {
		return abs
	}
	return src
}

// ExtractListingCards pulls lightweight records (title, company, location,
// salary) straight from listing-card elements, used when detail collection
// is disabled. Cards without a title are skipped; at most limit records are
// returned.
func ExtractListingCards(doc *goquery.Document, pageURL *url.URL, limit int) []JobRecord {
	if limit <= 0 {
		return nil
	}
	var records []JobRecord
	doc.Find(jobCardSelector).EachWithBreak(func(_ int, card *goquery.Selection) bool {
		title := collapseSpace(card.Find(`h2, h3, .job-title, [class*="title"]`).First().Text())
		if title == "" {
			return true
		}
		record := JobRecord{
			Title:    title,
			Company:  collapseSpace(card.Find(`.company-name, [class*="company"], .employer`).First().Text()),
			Location: collapseSpace(card.Find(`.location, [class*="location"], .job-location`).First().Text()),
			Salary:   collapseSpace(card.Find(`.salary, [class*="salary"]`).First().Text()),
			Source:   SourceSite,
		}
		if href, ok := card.Find("a[href]").First().Attr("href"); ok {
			if IsJobDetailHref(href) {
				record.URL = ResolveAbsolute(href, pageURL)
			}
		}
		records = append(records, record)
		return len(records) < limit
	})
	return records
}

func collapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}
