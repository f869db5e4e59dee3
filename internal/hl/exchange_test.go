package hl

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/hypeops/hypectl/internal/actions"
	clierr "github.com/hypeops/hypectl/internal/errors"
	"github.com/hypeops/hypectl/internal/httpx"
)

type capturedRequest struct {
	path string
	body map[string]any
}

func newTestExchange(t *testing.T, handler http.HandlerFunc) (*Exchange, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	ex, err := NewExchange(httpx.New(5*time.Second, 0), testPrivateKey, true, zerolog.Nop())
	require.NoError(t, err)
	ex.SetBaseURL(srv.URL)
	ex.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return ex, srv
}

func captureHandler(t *testing.T, calls *[]capturedRequest, status int, response string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		*calls = append(*calls, capturedRequest{path: r.URL.Path, body: body})
		w.WriteHeader(status)
		io.WriteString(w, response)
	}
}

func TestSubmitUndelegatePostsTokenDelegate(t *testing.T) {
	var calls []capturedRequest
	ex, _ := newTestExchange(t, captureHandler(t, &calls, http.StatusOK, `{"status":"ok","response":{"type":"default"}}`))

	validator := common.HexToAddress("0x" + strings.Repeat("Aa", 20))
	res, err := ex.Submit(context.Background(), actions.Undelegate{Validator: validator, Wei: 550_000_000})
	require.NoError(t, err)
	require.Equal(t, "ok", res.Status)

	require.Len(t, calls, 1, "one submit is one POST")
	require.Equal(t, "/exchange", calls[0].path)

	action := calls[0].body["action"].(map[string]any)
	require.Equal(t, "tokenDelegate", action["type"])
	require.Equal(t, strings.ToLower(validator.Hex()), action["validator"])
	require.Equal(t, true, action["isUndelegate"])
	require.Equal(t, float64(550_000_000), action["wei"])
	require.Equal(t, "Mainnet", action["hyperliquidChain"])
	require.Equal(t, UserSignedChainIDHex, action["signatureChainId"])
	require.Equal(t, float64(1700000000000), action["nonce"])
	require.Equal(t, float64(1700000000000), calls[0].body["nonce"])

	sig := calls[0].body["signature"].(map[string]any)
	require.Len(t, sig["r"], 66)
	require.Len(t, sig["s"], 66)
	require.Contains(t, []float64{27, 28}, sig["v"])
}

func TestSubmitVaultTransferConvertsUSD(t *testing.T) {
	var calls []capturedRequest
	ex, _ := newTestExchange(t, captureHandler(t, &calls, http.StatusOK, `{"status":"ok"}`))

	vault := common.HexToAddress("0x" + strings.Repeat("bb", 20))
	_, err := ex.Submit(context.Background(), actions.VaultTransfer{Vault: vault, USD: "1.5", Deposit: false})
	require.NoError(t, err)

	require.Len(t, calls, 1)
	action := calls[0].body["action"].(map[string]any)
	require.Equal(t, "vaultTransfer", action["type"])
	require.Equal(t, strings.ToLower(vault.Hex()), action["vaultAddress"])
	require.Equal(t, false, action["isDeposit"])
	require.Equal(t, float64(1_500_000), action["usd"], "1.5 USD is 1500000 at six decimals")
}

func TestSubmitStakeWithdrawPostsCWithdraw(t *testing.T) {
	var calls []capturedRequest
	ex, _ := newTestExchange(t, captureHandler(t, &calls, http.StatusOK, `{"status":"ok"}`))

	_, err := ex.Submit(context.Background(), actions.StakeWithdraw{Wei: 1_000_000_000})
	require.NoError(t, err)

	require.Len(t, calls, 1)
	action := calls[0].body["action"].(map[string]any)
	require.Equal(t, "cWithdraw", action["type"])
	require.Equal(t, float64(1_000_000_000), action["wei"])
}

func TestSubmitRejectedStatusIsRemoteError(t *testing.T) {
	var calls []capturedRequest
	ex, _ := newTestExchange(t, captureHandler(t, &calls, http.StatusOK, `{"status":"err","response":"Insufficient balance"}`))

	res, err := ex.Submit(context.Background(), actions.StakeWithdraw{Wei: 1})
	require.Error(t, err)
	cliErr, ok := clierr.As(err)
	require.True(t, ok)
	require.Equal(t, clierr.CodeRemote, cliErr.Code)
	require.Contains(t, string(res.Raw), "Insufficient balance")
	require.Len(t, calls, 1)
}

func TestSubmitServerErrorIsSinglePost(t *testing.T) {
	var calls []capturedRequest
	ex, _ := newTestExchange(t, captureHandler(t, &calls, http.StatusInternalServerError, `{"status":"err"}`))

	_, err := ex.Submit(context.Background(), actions.StakeWithdraw{Wei: 1})
	require.Error(t, err)
	cliErr, ok := clierr.As(err)
	require.True(t, ok)
	require.Equal(t, clierr.CodeRemote, cliErr.Code)
	require.Len(t, calls, 1, "dispatch never retries, even on a 5xx")
}
