package scrape

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Bangalore", "bangalore"},
		{"multi word", "New Delhi", "new-delhi"},
		{"punctuation", "  Navi Mumbai, MH ", "navi-mumbai-mh"},
		{"empty", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Slugify(tc.in))
		})
	}
}

func TestBuildStartURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		query SearchQuery
		want  string
	}{
		{
			name:  "keyword maps to category",
			query: SearchQuery{Keyword: "java developer"},
			want:  BaseURL + "/jobs/category/it-software",
		},
		{
			name:  "keyword matching bank",
			query: SearchQuery{Keyword: "Bank Clerk"},
			want:  BaseURL + "/jobs/category/bank",
		},
		{
			name:  "unmapped keyword falls back to default category",
			query: SearchQuery{Keyword: "zookeeper wrangler"},
			want:  BaseURL + "/jobs/category/it-software",
		},
		{
			name:  "keyword wins over location",
			query: SearchQuery{Keyword: "nurse", Location: "Chennai"},
			want:  BaseURL + "/jobs/category/healthcare",
		},
		{
			name:  "location slug",
			query: SearchQuery{Location: "New Delhi"},
			want:  BaseURL + "/jobs-in-new-delhi",
		},
		{
			name:  "category slug",
			query: SearchQuery{Category: "Teaching"},
			want:  BaseURL + "/jobs/category/teaching",
		},
		{
			name:  "empty query uses default",
			query: SearchQuery{},
			want:  BaseURL + "/jobs/category/it-software",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, BuildStartURL(tc.query))
		})
	}
}

func TestBuildPaginatedURL(t *testing.T) {
	t.Parallel()

	t.Run("offset follows page number", func(t *testing.T) {
		t.Parallel()
		got := BuildPaginatedURL(BaseURL+"/jobs-in-bangalore", 3)
		u, err := url.Parse(got)
		require.NoError(t, err)
		require.Equal(t, "20", u.Query().Get("limit"))
		require.Equal(t, "40", u.Query().Get("offset"))
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()
		first := BuildPaginatedURL(BaseURL+"/jobs/category/it-software", 2)
		second := BuildPaginatedURL(BaseURL+"/jobs/category/it-software", 2)
		require.Equal(t, first, second)
	})

	t.Run("page below one clamps", func(t *testing.T) {
		t.Parallel()
		got := BuildPaginatedURL(BaseURL+"/jobs-in-pune", 0)
		u, err := url.Parse(got)
		require.NoError(t, err)
		require.Equal(t, "0", u.Query().Get("offset"))
	})
}

func TestResolveAbsolute(t *testing.T) {
	t.Parallel()

	base, err := url.Parse(BaseURL + "/jobs-in-bangalore")
	require.NoError(t, err)

	cases := []struct {
		name string
		href string
		want string
	}{
		{"relative path", "/jobs/software-trainee-1234567", BaseURL + "/jobs/software-trainee-1234567"},
		{"already absolute", "https://example.com/x", "https://example.com/x"},
		{"empty", "", ""},
		{"malformed", "ht tp://broken", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, ResolveAbsolute(tc.href, base))
		})
	}
}

func TestStripQuery(t *testing.T) {
	t.Parallel()

	require.Equal(t, BaseURL+"/jobs-in-pune", StripQuery(BaseURL+"/jobs-in-pune?limit=20&offset=40"))
	require.Equal(t, BaseURL+"/jobs-in-pune", StripQuery(BaseURL+"/jobs-in-pune#top"))
	require.Equal(t, BaseURL+"/jobs-in-pune", StripQuery(BaseURL+"/jobs-in-pune"))
}
