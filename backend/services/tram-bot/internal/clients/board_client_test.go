package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"metrotram/backend/services/tram-bot/internal/models"
)

func TestBoardClientFetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html><script>var lines = [];</script></html>"))
	}))
	defer srv.Close()

	client := NewBoardClient(srv.URL+"/#paneles", NewBaseClient(NewDefaultHTTPClient(time.Second), "metrotram-test"), nil)
	html, err := client.Fetch(context.Background())

	require.NoError(t, err)
	require.Contains(t, html, "var lines")
	require.Equal(t, "metrotram-test", gotUA)
}

func TestBoardClientFetchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewBoardClient(srv.URL, NewBaseClient(srv.Client(), ""), nil)
	_, err := client.Fetch(context.Background())

	require.ErrorIs(t, err, models.ErrNetwork)
	var netErr *models.NetworkError
	require.True(t, errors.As(err, &netErr))
	require.Equal(t, http.StatusServiceUnavailable, netErr.StatusCode)
}

type failingDoer struct{}

func (failingDoer) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestBoardClientFetchTransportError(t *testing.T) {
	client := NewBoardClient("http://board.invalid", NewBaseClient(failingDoer{}, ""), nil)
	_, err := client.Fetch(context.Background())

	require.ErrorIs(t, err, models.ErrNetwork)
	require.ErrorContains(t, err, "connection refused")
}

func TestBoardClientFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	client := NewBoardClient(srv.URL, NewBaseClient(NewDefaultHTTPClient(50*time.Millisecond), ""), nil)
	_, err := client.Fetch(context.Background())

	require.ErrorIs(t, err, models.ErrNetwork)
}
