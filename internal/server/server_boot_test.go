package server

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/labstack/echo/v4"
	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketpool/rocketpool-web/internal/app"
	"github.com/rocketpool/rocketpool-web/internal/chain"
	"github.com/rocketpool/rocketpool-web/internal/config"
)

type stubProvider struct{}

func (stubProvider) NetworkID(context.Context) (*big.Int, error) { return big.NewInt(1), nil }
func (stubProvider) Accounts(context.Context) ([]common.Address, error) {
	return []common.Address{common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")}, nil
}
func (stubProvider) Balance(context.Context, common.Address) (*big.Int, error) {
	return big.NewInt(1_000_000_000_000_000_000), nil
}
func (stubProvider) EstimateGas(context.Context, chain.CallRequest) (uint64, error) {
	return 0, errors.New("unsupported")
}
func (stubProvider) SendTransaction(context.Context, chain.TxRequest) (common.Hash, error) {
	return common.Hash{}, errors.New("unsupported")
}
func (stubProvider) Receipt(context.Context, common.Hash) (*types.Receipt, error) {
	return nil, errors.New("unsupported")
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		AppAddr:          ":0",
		ArtifactsDir:     t.TempDir(),
		SessionSecret:    "test-secret",
		EmailProvider:    "log",
		ContactRecipient: "team@rocketpool.net",
		LoadingDelay:     time.Millisecond,
	}
	i := app.New(cfg, func(i do.Injector) {
		do.OverrideValue[chain.Provider](i, stubProvider{})
	})

	s, err := New(i)
	require.NoError(t, err)
	require.NoError(t, s.bootModules(context.Background()))
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func get(s *Server, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServer_Routes(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = get(s, "/static/css/app.css")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rocket Pool on Mainnet")
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	rec = get(s, "/contact")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `hx-post="/send-contact"`)
}

func TestServer_NotFoundIsJSON(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Not Found", resp.Message)
}

func TestServer_ModulesRegisterServices(t *testing.T) {
	s := newTestServer(t)
	require.Len(t, s.Modules, 2)
	assert.Equal(t, []string{"dashboard", "contact"}, []string{s.Modules[0].Name(), s.Modules[1].Name()})
}
