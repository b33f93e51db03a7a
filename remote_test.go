package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProjectServer emulates the REST surface the desktop client
// talks to, storing one project in memory.
func fakeProjectServer(t *testing.T) *httptest.Server {
	t.Helper()
	var stored struct {
		Name string          `json:"name"`
		Data json.RawMessage `json:"data"`
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/projects", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode([]ProjectInfo{{ID: "abc", Name: stored.Name}})
		case http.MethodPost:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&stored))
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(ProjectInfo{ID: "abc", Name: stored.Name})
		}
	})
	mux.HandleFunc("/api/projects/abc", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&stored))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":   "abc",
			"name": stored.Name,
			"data": stored.Data,
		})
	})
	mux.HandleFunc("/api/projects/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    "NOT_FOUND",
			"message": "project not found: missing",
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteClientRoundTrip(t *testing.T) {
	srv := fakeProjectServer(t)
	client := NewRemoteClient(srv.URL + "/")

	doc, _ := savedDoc(t)
	info, err := client.CreateProject(context.Background(), "unit-200", doc)
	require.NoError(t, err)
	assert.Equal(t, "abc", info.ID)
	assert.Equal(t, "unit-200", info.Name)

	projects, err := client.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "unit-200", projects[0].Name)

	fetched := NewCanvas()
	require.NoError(t, client.FetchProject(context.Background(), "abc", fetched, nil))
	requireDocsEquivalent(t, doc, fetched)
}

func TestRemoteClientErrorEnvelope(t *testing.T) {
	srv := fakeProjectServer(t)
	client := NewRemoteClient(srv.URL)

	err := client.FetchProject(context.Background(), "missing", NewCanvas(), nil)
	require.Error(t, err)

	var remote *remoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "NOT_FOUND", remote.Code)
}

func TestServerURLBuildsRemoteClient(t *testing.T) {
	withServer := initialModel(&Config{ServerURL: "http://draw.example"}, nil, NewAppContext("light"))
	assert.NotNil(t, withServer.remote)

	without := initialModel(&Config{}, nil, NewAppContext("light"))
	assert.Nil(t, without.remote)
}

func TestRemoteFileOperations(t *testing.T) {
	srv := fakeProjectServer(t)
	doc, _ := savedDoc(t)
	m := &model{
		doc:    doc,
		config: &Config{ServerURL: srv.URL},
		remote: NewRemoteClient(srv.URL),
	}

	// First publish creates the project and remembers its id.
	m.fileOp = FileOpRemoteSave
	m.filename = "unit-200"
	mm, _ := m.runFileOperation()
	published := mm.(model)
	assert.Equal(t, "abc", published.remoteProjectID)

	// A later publish of the same session updates in place.
	published.fileOp = FileOpRemoteSave
	published.filename = "unit-200"
	mm, _ = published.runFileOperation()
	published = mm.(model)
	assert.Equal(t, "abc", published.remoteProjectID)

	// The picker lists the server's projects by name.
	require.NoError(t, published.scanRemoteProjects())
	assert.Equal(t, []string{"unit-200"}, published.fileList)

	// Opening pulls the document back down.
	published.doc = NewCanvas()
	published.fileOp = FileOpRemoteOpen
	mm, _ = published.runFileOperation()
	opened := mm.(model)
	requireDocsEquivalent(t, doc, opened.doc)
	assert.Equal(t, "abc", opened.remoteProjectID)
}
