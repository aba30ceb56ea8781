package hound

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_SendsQueryParameters(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		got = map[string]string{
			"repos": q.Get("repos"),
			"rng":   q.Get("rng"),
			"files": q.Get("files"),
			"i":     q.Get("i"),
			"q":     q.Get("q"),
		}
		assert.Equal(t, "/api/v1/search", r.URL.Path)
		_, _ = w.Write([]byte(`{"Results":{}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, Options{})
	query := Query{Pattern: "foo.*bar", Repos: "linux,git", PathPattern: "*.go", IgnoreCase: true}
	_, err := c.Search(context.Background(), query, Window{Start: 50, End: 100})
	require.NoError(t, err)

	assert.Equal(t, "linux,git", got["repos"])
	assert.Equal(t, "50:100", got["rng"])
	assert.Equal(t, "*.go", got["files"])
	assert.Equal(t, "true", got["i"])
	assert.Equal(t, "foo.*bar", got["q"])
}

func TestSearch_ProbeSendsEmptyRange(t *testing.T) {
	var rng string
	var hasRng bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rng = r.URL.Query().Get("rng")
		hasRng = r.URL.Query().Has("rng")
		_, _ = w.Write([]byte(`{"Results":{}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, Options{})
	_, err := c.Search(context.Background(), Query{Pattern: "x", Repos: "*"}, Probe)
	require.NoError(t, err)
	assert.True(t, hasRng)
	assert.Empty(t, rng)
}

func TestSearch_DecodesResults(t *testing.T) {
	body := `{
		"Results": {
			"r1": {
				"FilesWithMatch": 3,
				"Matches": [
					{
						"Filename": "a.go",
						"Matches": [
							{"Line": "foo line", "LineNumber": 10, "Before": ["x", "y"], "After": ["z"]}
						]
					}
				]
			}
		}
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, Options{})
	out, err := c.Search(context.Background(), Query{Pattern: "foo", Repos: "*"}, Probe)
	require.NoError(t, err)
	require.False(t, out.TooMany)

	r1, ok := out.Results["r1"]
	require.True(t, ok)
	assert.Equal(t, 3, r1.FilesWithMatch)
	require.Len(t, r1.Matches, 1)
	assert.Equal(t, "a.go", r1.Matches[0].Filename)

	m := r1.Matches[0].Matches[0]
	assert.Equal(t, "foo line", m.Line)
	assert.Equal(t, 10, m.LineNumber)
	assert.Equal(t, []string{"x", "y"}, m.Before)
	assert.Equal(t, []string{"z"}, m.After)
}

func TestSearch_TooManyResultsIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Error": "search exceeds limit, try a smaller range"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, Options{})
	out, err := c.Search(context.Background(), Query{Pattern: "e", Repos: "*"}, Probe)
	require.NoError(t, err)
	assert.True(t, out.TooMany)
	assert.Nil(t, out.Results)
}

func TestSearch_ServerErrorIsVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Error": "invalid regular expression"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, Options{})
	_, err := c.Search(context.Background(), Query{Pattern: "(", Repos: "*"}, Probe)

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "invalid regular expression", serverErr.Message)
}

func TestSearch_InvalidJSONIsProtocolError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>502 Bad Gateway</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, Options{})
	_, err := c.Search(context.Background(), Query{Pattern: "x", Repos: "*"}, Probe)

	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Contains(t, protoErr.Body, "502 Bad Gateway")
	assert.Contains(t, err.Error(), "502 Bad Gateway")
}

func TestSearch_ConnectionFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	c := NewClient(srv.URL, Options{})
	_, err := c.Search(context.Background(), Query{Pattern: "x", Repos: "*"}, Probe)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.NotNil(t, errors.Unwrap(transportErr))
}

func TestListRepos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/repos", r.URL.Path)
		_, _ = w.Write([]byte(`{"zebra": {"url": "z"}, "alpha": {"url": "a"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, Options{})
	repos, err := c.ListRepos(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zebra"}, repos)
}

func TestListRepos_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Error": "index unavailable"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, Options{})
	_, err := c.ListRepos(context.Background())

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "index unavailable", serverErr.Message)
}
