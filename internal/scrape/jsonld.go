package scrape

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// defaultCurrency is assumed when a baseSalary block omits its currency.
const defaultCurrency = "INR"

// ExtractStructured scans the document's embedded JSON-LD blocks and returns
// the first one typed as a JobPosting, mapped into a PartialJobRecord.
// Blocks that fail to parse are skipped. Returns nil when no matching block
// exists, which callers may treat the same as an all-empty record.
func ExtractStructured(doc *goquery.Document) *PartialJobRecord {
	var record *PartialJobRecord
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var parsed any
		if err := json.Unmarshal([]byte(s.Text()), &parsed); err != nil {
			return true
		}
		for _, entity := range asEntityList(parsed) {
			if !isJobPosting(entity["@type"]) && !isJobPosting(entity["type"]) {
				continue
			}
			record = recordFromEntity(entity)
			return false
		}
		return true
	})
	return record
}

func asEntityList(parsed any) []map[string]any {
	switch v := parsed.(type) {
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case map[string]any:
		return []map[string]any{v}
	default:
		return nil
	}
}

func isJobPosting(typeField any) bool {
	switch t := typeField.(type) {
	case string:
		return t == "JobPosting"
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s == "JobPosting" {
				return true
			}
		}
	}
	return false
}

func recordFromEntity(entity map[string]any) *PartialJobRecord {
	hiringOrg := asObject(entity["hiringOrganization"])
	jobLocation := entity["jobLocation"]
	address := asObject(asObject(jobLocation)["address"])

	location := asString(address["addressLocality"])
	if location == "" {
		location = asString(address["addressRegion"])
	}
	if location == "" {
		location = asString(jobLocation)
	}

	title := asString(entity["title"])
	if title == "" {
		title = asString(entity["name"])
	}

	return &PartialJobRecord{
		Title:           strings.TrimSpace(title),
		Company:         strings.TrimSpace(asString(hiringOrg["name"])),
		CompanyLogo:     asString(hiringOrg["logo"]),
		Location:        strings.TrimSpace(location),
		Salary:          salaryText(entity["baseSalary"]),
		Experience:      experienceYears(entity["experienceRequirements"]),
		Qualification:   strings.TrimSpace(asString(asObject(entity["educationRequirements"])["credentialCategory"])),
		JobType:         joined(entity["employmentType"]),
		Skills:          joined(entity["skills"]),
		Industry:        strings.TrimSpace(asString(entity["industry"])),
		DatePosted:      asString(entity["datePosted"]),
		ValidThrough:    asString(entity["validThrough"]),
		DescriptionHTML: asString(entity["description"]),
		ApplyLink:       asString(entity["url"]),
	}
}

// salaryText renders baseSalary with a fixed precedence: a min-max range
// with currency, else a single value with currency, else the field verbatim
// when it is a plain string, else empty.
func salaryText(baseSalary any) string {
	if s, ok := baseSalary.(string); ok {
		return strings.TrimSpace(s)
	}
	salary := asObject(baseSalary)
	if salary == nil {
		return ""
	}
	currency := asString(salary["currency"])
	if currency == "" {
		currency = defaultCurrency
	}
	value := asObject(salary["value"])
	minV, hasMin := asNumber(value["minValue"])
	maxV, hasMax := asNumber(value["maxValue"])
	if hasMin && hasMax {
		return fmt.Sprintf("%s - %s %s", formatNumber(minV), formatNumber(maxV), currency)
	}
	if single, ok := asNumber(value["value"]); ok {
		return fmt.Sprintf("%s %s", formatNumber(single), currency)
	}
	if s := asString(value["value"]); s != "" {
		return fmt.Sprintf("%s %s", s, currency)
	}
	return ""
}

// experienceYears converts monthsOfExperience into whole years by floor
// division.
func experienceYears(requirements any) string {
	months, ok := asNumber(asObject(requirements)["monthsOfExperience"])
	if !ok || months <= 0 {
		return ""
	}
	return fmt.Sprintf("%d years", int(months)/12)
}

func asObject(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func formatNumber(n float64) string {
	if n == math.Trunc(n) {
		return fmt.Sprintf("%d", int64(n))
	}
	return fmt.Sprintf("%g", n)
}

// joined flattens a string-or-array field into a comma-joined string.
func joined(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}
