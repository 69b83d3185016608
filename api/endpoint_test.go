package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/raffle-lab/backend/pkg/testutil"
	"github.com/raffle-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Name string `json:"name"`
}

type echoResponse struct {
	Name string `json:"name"`
}

func TestEndpoint_requestContext(t *testing.T) {
	base := testutil.MockContext()

	var handleCtx context.Context
	endpoint := &Endpoint[echoRequest, echoResponse]{
		Method: http.MethodGet,
		Path:   "/echo",
		Base:   base,
		Handle: func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
			handleCtx = ctx
			return &echoResponse{Name: req.Name}, nil
		},
	}

	mux := http.NewServeMux()
	endpoint.Register(mux)

	reqCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := httptest.NewRequest(http.MethodGet, "/echo?name=raffle", nil).WithContext(reqCtx)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	// Base values remain visible on the handler context.
	require.Equal(t, uint64(100), xcontext.Configs(handleCtx).Raffle.EntryFee)
	require.NotNil(t, xcontext.DB(handleCtx))

	// Cancelling the request still cancels the handler context.
	require.NoError(t, handleCtx.Err())
	cancel()
	require.ErrorIs(t, handleCtx.Err(), context.Canceled)
}
