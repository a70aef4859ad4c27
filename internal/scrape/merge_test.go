package scrape

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergePrefersStructured(t *testing.T) {
	t.Parallel()

	structured := &PartialJobRecord{
		Title:  "Software Trainee",
		Salary: "10-15 LPA",
	}
	markup := PartialJobRecord{
		Title:    "Software Trainee Job in Bangalore",
		Salary:   "12 LPA",
		Location: "Bangalore",
	}

	record, err := Merge(structured, markup, BaseURL+"/jobs/software-trainee-1234567")
	require.NoError(t, err)
	require.Equal(t, "Software Trainee", record.Title)
	require.Equal(t, "10-15 LPA", record.Salary)
	require.Equal(t, "Bangalore", record.Location, "markup fills structured gaps")
	require.Equal(t, SourceSite, record.Source)
	require.Equal(t, BaseURL+"/jobs/software-trainee-1234567", record.URL)
}

func TestMergeNilStructured(t *testing.T) {
	t.Parallel()

	markup := PartialJobRecord{
		Title:           "Data Analyst",
		DescriptionHTML: "<p>Analyse data</p>",
	}
	record, err := Merge(nil, markup, BaseURL+"/jobs/data-analyst-7654321")
	require.NoError(t, err)
	require.Equal(t, "Data Analyst", record.Title)
	require.Equal(t, "Analyse data", record.DescriptionText)
}

func TestMergeApplyLinkFallsBackToPageURL(t *testing.T) {
	t.Parallel()

	pageURL := BaseURL + "/jobs/qa-engineer-1112223"
	record, err := Merge(nil, PartialJobRecord{Title: "QA Engineer"}, pageURL)
	require.NoError(t, err)
	require.Equal(t, pageURL, record.ApplyLink)

	record, err = Merge(&PartialJobRecord{Title: "QA Engineer", ApplyLink: "https://apply.example.com"}, PartialJobRecord{}, pageURL)
	require.NoError(t, err)
	require.Equal(t, "https://apply.example.com", record.ApplyLink)
}

func TestMergeNoTitle(t *testing.T) {
	t.Parallel()

	_, err := Merge(&PartialJobRecord{Company: "Acme"}, PartialJobRecord{Location: "Pune"}, BaseURL+"/jobs/x-1234567")
	require.ErrorIs(t, err, ErrNoTitle)
}
