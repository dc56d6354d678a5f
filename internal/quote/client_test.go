package quote_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ryokan-quote/internal/pricing"
	"github.com/noah-isme/ryokan-quote/internal/quote"
)

func TestClientRoundTrip(t *testing.T) {
	srv := httptest.NewServer(newRouter(pricing.DefaultPolicy(), 5))
	defer srv.Close()

	client, err := quote.NewClient(quote.ClientConfig{BaseURL: srv.URL + "/", Transport: srv.Client().Transport})
	require.NoError(t, err)

	ctx := context.Background()
	defaults, err := client.Defaults(ctx)
	require.NoError(t, err)
	require.Equal(t, quote.DefaultRequest(), defaults)

	resp, err := client.Create(ctx, defaults)
	require.NoError(t, err)
	require.EqualValues(t, 89750, resp.GrandTotal)
	require.Equal(t, "¥89,750", resp.GrandTotalDisplay)
	require.Len(t, resp.Summary, 6)
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(newRouter(pricing.DefaultPolicy(), 5))
	defer srv.Close()

	client, err := quote.NewClient(quote.ClientConfig{BaseURL: srv.URL, MaxAttempts: 1})
	require.NoError(t, err)

	req := quote.DefaultRequest()
	req.Adult.Room.Count = -3
	_, err = client.Create(context.Background(), req)

	var apiErr *quote.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, 422, apiErr.StatusCode)
	require.Equal(t, "VALIDATION_FAILED", apiErr.Code)
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := quote.NewClient(quote.ClientConfig{BaseURL: "ftp://example.com"})
	require.Error(t, err)
}
