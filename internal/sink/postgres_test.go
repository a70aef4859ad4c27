package sink

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/jobsweep/jobsweep/internal/scrape"
)

func TestPostgresAppendInsertsRows(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s, err := NewPostgresWithPool(mock, "job_records")
	require.NoError(t, err)

	record := scrape.JobRecord{
		Title:           "Software Trainee",
		Company:         "Acme Corp",
		Location:        "Bangalore",
		Salary:          "2.5 - 3.5 LPA",
		DescriptionHTML: "<p>Build things.</p>",
		DescriptionText: "Build things.",
		ApplyLink:       "https://www.freshersworld.com/jobs/software-trainee-1234567",
		URL:             "https://www.freshersworld.com/jobs/software-trainee-1234567",
		Source:          "freshersworld.com",
	}

	mock.ExpectExec("INSERT INTO job_records").
		WithArgs(
			record.URL,
			record.Source,
			record.Title,
			record.Company,
			record.CompanyLogo,
			record.Location,
			record.Salary,
			record.Experience,
			record.Qualification,
			record.JobType,
			record.Skills,
			record.Industry,
			record.DatePosted,
			record.ValidThrough,
			record.DescriptionHTML,
			record.DescriptionText,
			record.ApplyLink,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.Append(context.Background(), []scrape.JobRecord{record}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAppendAcceptsEmptyURL(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s, err := NewPostgresWithPool(mock, "job_records")
	require.NoError(t, err)

	// Listing-card records without a detail link still persist.
	mock.ExpectExec("INSERT INTO job_records").
		WithArgs(
			"", "freshersworld.com", "Software Trainee", "Acme Corp",
			"", "Bangalore", "", "", "", "", "", "", "", "", "", "", "",
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = s.Append(context.Background(), []scrape.JobRecord{{
		Title:    "Software Trainee",
		Company:  "Acme Corp",
		Location: "Bangalore",
		Source:   "freshersworld.com",
	}})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAppendPropagatesExecError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s, err := NewPostgresWithPool(mock, "job_records")
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO job_records").
		WithArgs(
			"https://example.com/jobs/x-1234567",
			"", "X", "", "", "", "", "", "", "", "", "", "", "", "", "",
			"https://example.com/jobs/x-1234567",
		).
		WillReturnError(errors.New("connection reset"))

	err = s.Append(context.Background(), []scrape.JobRecord{{
		Title:     "X",
		URL:       "https://example.com/jobs/x-1234567",
		ApplyLink: "https://example.com/jobs/x-1234567",
	}})
	require.ErrorContains(t, err, "insert job record")
}

func TestNewPostgresWithPoolValidatesTable(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	_, err = NewPostgresWithPool(mock, "drop table; --")
	require.Error(t, err)

	s, err := NewPostgresWithPool(mock, "")
	require.NoError(t, err)
	require.Equal(t, "job_records", s.table)
}
