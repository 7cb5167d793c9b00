package linkedin

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/market-copilot/internal/types"
)

var lima = time.FixedZone("PET", -5*60*60)

func loadFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "search_page.html"))
	require.NoError(t, err)
	return string(data)
}

func TestParseJobs(t *testing.T) {
	today := time.Date(2025, 3, 14, 10, 0, 0, 0, lima)

	jobs, err := ParseJobs(loadFixture(t), today)
	require.NoError(t, err)

	// 3902 is from another day and the card without an urn is dropped
	require.Len(t, jobs, 3)
	assert.Equal(t, "3901", jobs[0].ID)
	assert.Equal(t, "3903", jobs[1].ID)
	assert.Equal(t, "3904", jobs[2].ID)
}

func TestParseJobs_CardFields(t *testing.T) {
	today := time.Date(2025, 3, 14, 23, 59, 0, 0, lima)

	jobs, err := ParseJobs(loadFixture(t), today)
	require.NoError(t, err)
	require.NotEmpty(t, jobs)

	assert.Equal(t, types.JobPosting{
		URN:          "urn:li:jobPosting:3901",
		ID:           "3901",
		Title:        "Analista de Datos",
		URL:          "https://pe.linkedin.com/jobs/view/data-analyst-3901?refId=abc",
		Location:     "San Isidro, Lima, Peru",
		CreatedAt:    "2025-03-14",
		RelativeTime: "hace 2 horas",
		Employer: types.Employer{
			LogoURL:    "https://media.licdn.com/logo-acme.png",
			ProfileURL: "https://pe.linkedin.com/company/acme",
			Name:       "Acme Peru",
		},
	}, jobs[0])
}

func TestParseJobs_MissingOptionalFields(t *testing.T) {
	today := time.Date(2025, 3, 14, 0, 0, 0, 0, lima)

	jobs, err := ParseJobs(loadFixture(t), today)
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	noDate := jobs[1]
	assert.Equal(t, "Ingeniero de Software", noDate.Title)
	assert.Empty(t, noDate.CreatedAt)
	assert.Empty(t, noDate.RelativeTime)
	assert.Equal(t, DefaultEmployer, noDate.Employer.Name)
	assert.Empty(t, noDate.Employer.ProfileURL)
	assert.Equal(t, "https://media.licdn.com/logo-src.png", noDate.Employer.LogoURL)

	badDate := jobs[2]
	assert.Equal(t, "yesterday-ish", badDate.CreatedAt)
	assert.Equal(t, "ayer", badDate.RelativeTime)
	assert.Empty(t, badDate.URL)
}

func TestParseJobs_OtherDayDropsDatedCards(t *testing.T) {
	today := time.Date(2025, 3, 10, 12, 0, 0, 0, lima)

	jobs, err := ParseJobs(loadFixture(t), today)
	require.NoError(t, err)

	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	assert.Equal(t, []string{"3902", "3903", "3904"}, ids)
}

func TestParseJobs_EmptyPage(t *testing.T) {
	jobs, err := ParseJobs("<html><body><p>no results</p></body></html>", time.Now())
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestJobURLs(t *testing.T) {
	jobs := []types.JobPosting{
		{ID: "1", URL: "https://x/1"},
		{ID: "2"},
		{ID: "3", URL: "https://x/3"},
	}
	assert.Equal(t, []string{"https://x/1", "https://x/3"}, JobURLs(jobs))
	assert.Empty(t, JobURLs(nil))
}

func TestStripQuery(t *testing.T) {
	assert.Equal(t, "https://pe.linkedin.com/company/acme", stripQuery(" https://pe.linkedin.com/company/acme?trk=x "))
	assert.Equal(t, "https://a/b", stripQuery("https://a/b"))
}
