package xcontext

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_HTTPClient(t *testing.T) {
	require.Equal(t, http.DefaultClient, HTTPClient(context.Background()))

	client := &http.Client{Timeout: 30 * time.Second}
	ctx := WithHTTPClient(context.Background(), client)
	require.Same(t, client, HTTPClient(ctx))
}

func Test_RequestUserID(t *testing.T) {
	require.Equal(t, "", RequestUserID(context.Background()))

	ctx := WithRequestUserID(context.Background(), "user1")
	require.Equal(t, "user1", RequestUserID(ctx))
}
