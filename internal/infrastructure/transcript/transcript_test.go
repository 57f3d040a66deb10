// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package transcript

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetwise/meetwise-meeting-service/internal/domain"
)

func TestFetcher_Fetch(t *testing.T) {
	content := `{"speaker_id":"u1","type":"speech","text":"hello","start_ts":0.1,"stop_ts":1.0}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(content))
	}))
	t.Cleanup(server.Close)

	fetcher := NewFetcher(0)
	body, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, content, string(body))
}

func TestFetcher_Fetch_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	fetcher := NewFetcher(0)
	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeInternal, domain.GetErrorType(err))
}

func TestParseJSONL(t *testing.T) {
	data := []byte(`{"speaker_id":"u1","type":"speech","text":"hello","start_ts":0.1,"stop_ts":1.0}

{"speaker_id":"u2","type":"speech","text":"hi there","start_ts":1.5,"stop_ts":2.4}
`)

	items, err := ParseJSONL(data)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "u1", items[0].SpeakerID)
	assert.Equal(t, "hello", items[0].Text)
	assert.InDelta(t, 1.5, items[1].StartTS, 0.001)
}

func TestParseJSONL_Empty(t *testing.T) {
	items, err := ParseJSONL(nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestParseJSONL_MalformedLine(t *testing.T) {
	data := []byte(`{"speaker_id":"u1","type":"speech","text":"hello"}
{not json}`)

	_, err := ParseJSONL(data)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	assert.Contains(t, err.Error(), "line 2")
}
