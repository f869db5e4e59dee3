package hl

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/binary"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/vmihailenco/msgpack/v5"

	clierr "github.com/hypeops/hypectl/internal/errors"
)

// Hyperliquid signs two families of actions:
//
//   - L1 actions (vaultTransfer): the action is msgpack-encoded, extended
//     with the nonce and an optional vault marker, keccak-hashed, and the
//     hash is wrapped in a "phantom agent" signed as EIP-712 typed data
//     under the Exchange/1337 domain.
//   - User-signed actions (tokenDelegate, cWithdraw): the action fields are
//     signed directly as EIP-712 typed data under the
//     HyperliquidSignTransaction/421614 domain.
const (
	l1DomainChainID         = 1337
	userSignedChainID       = 421614
	UserSignedChainIDHex    = "0x66eee"
	zeroVerifyingContract   = "0x0000000000000000000000000000000000000000"
	agentSourceMainnet      = "a"
	agentSourceTestnet      = "b"
	typeTokenDelegate       = "HyperliquidTransaction:TokenDelegate"
	typeCWithdraw           = "HyperliquidTransaction:CWithdraw"
)

var eip712DomainFields = []apitypes.Type{
	{Name: "name", Type: "string"},
	{Name: "version", Type: "string"},
	{Name: "chainId", Type: "uint256"},
	{Name: "verifyingContract", Type: "address"},
}

// ParsePrivateKey loads a secp256k1 key from hex, with or without the 0x
// prefix, and returns it with the derived EOA address.
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, common.Address, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, common.Address{}, clierr.Wrap(clierr.CodeInvalidAddress, "parse private key", err)
	}
	return key, crypto.PubkeyToAddress(key.PublicKey), nil
}

// packAction msgpack-encodes an action for hashing. Compact ints are
// required: the exchange hashes the narrowest uint width for each value, so
// a fixed 8-byte encoding would produce a different digest for the same
// action.
func packAction(action any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.UseCompactInts(true)
	if err := enc.Encode(action); err != nil {
		return nil, clierr.Wrap(clierr.CodeInternal, "msgpack action", err)
	}
	return buf.Bytes(), nil
}

// ActionHash computes the L1 action hash: msgpack(action) || nonce(8B BE) ||
// vault marker (0x00, or 0x01 plus the 20-byte vault address).
func ActionHash(action any, vault *common.Address, nonce uint64) (common.Hash, error) {
	packed, err := packAction(action)
	if err != nil {
		return common.Hash{}, err
	}
	data := make([]byte, 0, len(packed)+29)
	data = append(data, packed...)
	var nonceBytes [8]byte
	binary.BigEndian.PutUint64(nonceBytes[:], nonce)
	data = append(data, nonceBytes[:]...)
	if vault == nil {
		data = append(data, 0x00)
	} else {
		data = append(data, 0x01)
		data = append(data, vault.Bytes()...)
	}
	return crypto.Keccak256Hash(data), nil
}

// SignL1Action signs an action hash through the phantom-agent typed data.
func SignL1Action(key *ecdsa.PrivateKey, action any, vault *common.Address, nonce uint64, mainnet bool) (Signature, error) {
	hash, err := ActionHash(action, vault, nonce)
	if err != nil {
		return Signature{}, err
	}
	source := agentSourceTestnet
	if mainnet {
		source = agentSourceMainnet
	}
	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": eip712DomainFields,
			"Agent": {
				{Name: "source", Type: "string"},
				{Name: "connectionId", Type: "bytes32"},
			},
		},
		PrimaryType: "Agent",
		Domain: apitypes.TypedDataDomain{
			Name:              "Exchange",
			Version:           "1",
			ChainId:           math.NewHexOrDecimal256(l1DomainChainID),
			VerifyingContract: zeroVerifyingContract,
		},
		Message: apitypes.TypedDataMessage{
			"source":       source,
			"connectionId": hexutil.Encode(hash.Bytes()),
		},
	}
	return signTypedData(key, typedData)
}

// signUserSigned signs an action's own fields as typed data. The field list
// order must match the exchange's registered schema for the primary type.
func signUserSigned(key *ecdsa.PrivateKey, primaryType string, fields []apitypes.Type, message apitypes.TypedDataMessage) (Signature, error) {
	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": eip712DomainFields,
			primaryType:    fields,
		},
		PrimaryType: primaryType,
		Domain: apitypes.TypedDataDomain{
			Name:              "HyperliquidSignTransaction",
			Version:           "1",
			ChainId:           math.NewHexOrDecimal256(userSignedChainID),
			VerifyingContract: zeroVerifyingContract,
		},
		Message: message,
	}
	return signTypedData(key, typedData)
}

func SignTokenDelegate(key *ecdsa.PrivateKey, action TokenDelegateAction) (Signature, error) {
	return signUserSigned(key, typeTokenDelegate,
		[]apitypes.Type{
			{Name: "hyperliquidChain", Type: "string"},
			{Name: "validator", Type: "address"},
			{Name: "wei", Type: "uint64"},
			{Name: "isUndelegate", Type: "bool"},
			{Name: "nonce", Type: "uint64"},
		},
		apitypes.TypedDataMessage{
			"hyperliquidChain": action.HyperliquidChain,
			"validator":        action.Validator,
			"wei":              u64(action.Wei),
			"isUndelegate":     action.IsUndelegate,
			"nonce":            u64(action.Nonce),
		})
}

func SignCWithdraw(key *ecdsa.PrivateKey, action CWithdrawAction) (Signature, error) {
	return signUserSigned(key, typeCWithdraw,
		[]apitypes.Type{
			{Name: "hyperliquidChain", Type: "string"},
			{Name: "wei", Type: "uint64"},
			{Name: "nonce", Type: "uint64"},
		},
		apitypes.TypedDataMessage{
			"hyperliquidChain": action.HyperliquidChain,
			"wei":              u64(action.Wei),
			"nonce":            u64(action.Nonce),
		})
}

func signTypedData(key *ecdsa.PrivateKey, typedData apitypes.TypedData) (Signature, error) {
	hash, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return Signature{}, clierr.Wrap(clierr.CodeInternal, "hash typed data", err)
	}
	sig, err := crypto.Sign(hash, key)
	if err != nil {
		return Signature{}, clierr.Wrap(clierr.CodeInternal, "sign typed data", err)
	}
	return Signature{
		R: hexutil.Encode(sig[:32]),
		S: hexutil.Encode(sig[32:64]),
		V: sig[64] + 27,
	}, nil
}

func u64(v uint64) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(new(big.Int).SetUint64(v))
}
