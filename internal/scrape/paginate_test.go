package scrape

import (
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveNextPageExplicitLink(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<div class="pagination"><a rel="next" href="/jobs-in-bangalore/2">Next</a></div>`)
	pageURL := mustParseURL(t, BaseURL+"/jobs-in-bangalore")

	info := ResolveNextPage(doc, pageURL, 1, BaseURL+"/jobs-in-bangalore", 0)
	require.True(t, info.HasNext)
	require.Equal(t, BaseURL+"/jobs-in-bangalore/2", info.NextURL)
}

func TestResolveNextPageLabelledAnchor(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<div class="pagination"><a href="/jobs-in-pune?offset=20">&raquo;</a></div>`)
	pageURL := mustParseURL(t, BaseURL+"/jobs-in-pune")

	info := ResolveNextPage(doc, pageURL, 1, BaseURL+"/jobs-in-pune", 0)
	require.True(t, info.HasNext)
	require.Equal(t, BaseURL+"/jobs-in-pune?offset=20", info.NextURL)
}

func TestResolveNextPageNumberedControls(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<div class="pagination">
		<a href="#">1</a><a href="#">2</a><a href="#">7</a>
	</div>`)
	pageURL := mustParseURL(t, BaseURL+"/jobs/category/it-software")
	base := BaseURL + "/jobs/category/it-software"

	info := ResolveNextPage(doc, pageURL, 2, base, 0)
	require.True(t, info.HasNext)
	require.Equal(t, BuildPaginatedURL(base, 3), info.NextURL)
}

func TestResolveNextPageNumberedControlsExhausted(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<div class="pagination"><a href="#">1</a><a href="#">2</a></div>`)
	pageURL := mustParseURL(t, BaseURL+"/jobs-in-pune")

	info := ResolveNextPage(doc, pageURL, 2, BaseURL+"/jobs-in-pune", 3)
	require.False(t, info.HasNext)
}

func TestResolveNextPageYieldHeuristic(t *testing.T) {
	t.Parallel()

	empty := parseDoc(t, `<html><body></body></html>`)
	pageURL := mustParseURL(t, BaseURL+"/jobs-in-bangalore")
	base := BaseURL + "/jobs-in-bangalore"

	t.Run("half-page yield infers next", func(t *testing.T) {
		t.Parallel()
		info := ResolveNextPage(empty, pageURL, 2, base, JobsPerPage/2)
		require.True(t, info.HasNext)
		require.Equal(t, BuildPaginatedURL(base, 3), info.NextURL)
	})

	t.Run("below half-page yield stops", func(t *testing.T) {
		t.Parallel()
		info := ResolveNextPage(empty, pageURL, 2, base, JobsPerPage/2-1)
		require.False(t, info.HasNext)
		require.Empty(t, info.NextURL)
	})
}

func TestResolveNextPageIsDeterministic(t *testing.T) {
	t.Parallel()

	empty := parseDoc(t, `<html><body></body></html>`)
	pageURL := mustParseURL(t, BaseURL+"/jobs-in-pune")
	base := BaseURL + "/jobs-in-pune?limit=20&offset=20"

	info := ResolveNextPage(empty, pageURL, 2, base, JobsPerPage)
	require.True(t, info.HasNext)

	next, err := url.Parse(info.NextURL)
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("%d", 2*JobsPerPage), next.Query().Get("offset"))
	require.False(t, strings.Contains(next.RawQuery, "offset=20&"), "stale offset must not survive")
}
