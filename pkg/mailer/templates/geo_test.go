package templates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPAPIResolver(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/json/203.0.113.9" {
			_, _ = w.Write([]byte(`{"status":"success","country":"Japan","regionName":"Kanto","city":"Pallet"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"fail","message":"reserved range"}`))
	}))
	defer srv.Close()

	r := IPAPIResolver{Client: srv.Client(), BaseURL: srv.URL}
	g, err := r.Lookup(context.Background(), "203.0.113.9")
	require.NoError(t, err)
	assert.Equal(t, "Pallet, Kanto, Japan", FormatGeo(g))

	_, err = r.Lookup(context.Background(), "10.0.0.1")
	require.Error(t, err)

	_, err = r.Lookup(context.Background(), " ")
	require.Error(t, err)
}
