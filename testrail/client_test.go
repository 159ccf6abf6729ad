package testrail

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenThreePages_WhenListingCases_ThenConcatenatesInOrder(t *testing.T) {
	// Given
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, apiKey, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "user", username)
		require.Equal(t, "key", apiKey)

		var page casesPage
		switch offset := r.URL.Query().Get("offset"); offset {
		case "0":
			page = casesPageOf(0, 100, 100, true)
		case "100":
			page = casesPageOf(100, 100, 100, true)
		case "200":
			page = casesPageOf(200, 100, 30, false)
		default:
			t.Errorf("unexpected offset: %s", offset)
		}
		require.NoError(t, json.NewEncoder(w).Encode(page))
	}))
	defer server.Close()

	client := createTestClient(server.URL)

	// When
	cases, err := client.GetCases(1, 2, 0)

	// Then
	require.NoError(t, err)
	require.Len(t, cases, 230)
	assert.Equal(t, int64(1), cases[0].ID)
	assert.Equal(t, int64(230), cases[229].ID)
}

func Test_GivenNextLinkWithoutProgress_WhenListingCases_ThenStops(t *testing.T) {
	// Given: the server claims a next page but never advances the offset.
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		page := casesPageOf(0, 0, 1, true)
		require.NoError(t, json.NewEncoder(w).Encode(page))
	}))
	defer server.Close()

	client := createTestClient(server.URL)

	// When
	cases, err := client.GetCases(1, 2, 0)

	// Then
	require.NoError(t, err)
	assert.NotEmpty(t, cases)
	assert.LessOrEqual(t, atomic.LoadInt32(&requests), int32(2))
}

func Test_GivenTransientFailures_WhenListingSections_ThenRetriesUntilSuccess(t *testing.T) {
	// Given: 4 transient failures, then success, against a 5 attempt budget.
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 5 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, err := w.Write([]byte(`{"sections":[{"id":1,"suite_id":2,"name":"Root","depth":0}]}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := createTestClient(server.URL)

	// When
	sections, err := client.GetSections(1, 2)

	// Then
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "Root", sections[0].Name)
	assert.EqualValues(t, 5, atomic.LoadInt32(&attempts))
}

func Test_GivenClientError_WhenAddingSection_ThenFailsWithoutRetry(t *testing.T) {
	// Given
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, err := w.Write([]byte(`{"error":"Field :name is a required field."}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := createTestClient(server.URL)

	// When
	_, err := client.AddSection(1, AddSectionParams{SuiteID: 2})

	// Then
	require.Error(t, err)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.Code)
	assert.EqualValues(t, 1, atomic.LoadInt32(&attempts))
}

func Test_GivenNoParent_WhenAddingSection_ThenOmitsAbsentFields(t *testing.T) {
	// Given
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, err := w.Write([]byte(`{"id":10,"suite_id":2,"name":"Root","depth":0}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := createTestClient(server.URL)

	// When
	section, err := client.AddSection(1, AddSectionParams{SuiteID: 2, Name: "Root"})

	// Then
	require.NoError(t, err)
	assert.Equal(t, int64(10), section.ID)
	assert.Equal(t, "Root", received["name"])
	assert.NotContains(t, received, "parent_id")
	assert.NotContains(t, received, "description")
}

func Test_GivenParent_WhenAddingSection_ThenSendsParentID(t *testing.T) {
	// Given
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, err := w.Write([]byte(`{"id":11,"suite_id":2,"name":"Child","parent_id":10,"depth":1}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := createTestClient(server.URL)

	// When
	section, err := client.AddSection(1, AddSectionParams{SuiteID: 2, Name: "Child", ParentID: int64Ptr(10)})

	// Then
	require.NoError(t, err)
	require.NotNil(t, section.ParentID)
	assert.Equal(t, int64(10), *section.ParentID)
	assert.EqualValues(t, 10, received["parent_id"])
}

func Test_GivenResultPayload_WhenSubmitting_ThenPostsToRunAndCase(t *testing.T) {
	// Given
	var requestQuery string
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestQuery = r.URL.RawQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, err := w.Write([]byte(`{"id":1000}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := createTestClient(server.URL)

	// When
	result, err := client.AddResultForCase(77, 100, AddResultParams{StatusID: 5, Elapsed: "2s", Comment: "failed"})

	// Then
	require.NoError(t, err)
	assert.Equal(t, int64(1000), result.ID)
	assert.Contains(t, requestQuery, "/api/v2/add_result_for_case/77/100")
	assert.EqualValues(t, 5, received["status_id"])
	assert.Equal(t, "2s", received["elapsed"])
}

// Helpers

func createTestClient(serverURL string) Client {
	return NewClient(ClientConfig{
		Endpoint:     serverURL,
		Username:     "user",
		APIKey:       "key",
		MaxAttempts:  5,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
	}, log.NewLogger())
}

func casesPageOf(offset, limit int64, count int, hasNext bool) casesPage {
	page := casesPage{Offset: offset, Limit: limit}
	for i := 0; i < count; i++ {
		id := offset + int64(i) + 1
		page.Cases = append(page.Cases, Case{ID: id, Title: fmt.Sprintf("case %d", id), SectionID: 10, SuiteID: 2})
	}
	if hasNext {
		next := fmt.Sprintf("/api/v2/get_cases/1&offset=%d", offset+limit)
		page.Links.Next = &next
	}
	return page
}
