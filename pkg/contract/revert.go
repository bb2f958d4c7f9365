package contract

import (
	"errors"
	"regexp"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// hardhatReason matches the reason hardhat embeds in its error messages.
var hardhatReason = regexp.MustCompile(`reverted with reason string '([^']*)'`)

// revertReason extracts a Solidity revert reason from a JSON-RPC error.
func revertReason(err error) (string, bool) {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if reason, ok := decodeRevertData(dataErr.ErrorData()); ok {
			return reason, true
		}
	}
	if m := hardhatReason.FindStringSubmatch(err.Error()); m != nil {
		return m[1], true
	}
	return "", false
}

func decodeRevertData(data any) (string, bool) {
	var raw string
	switch v := data.(type) {
	case string:
		raw = v
	case map[string]any:
		s, ok := v["data"].(string)
		if !ok {
			return "", false
		}
		raw = s
	default:
		return "", false
	}

	b, err := hexutil.Decode(raw)
	if err != nil {
		return "", false
	}
	reason, err := gethabi.UnpackRevert(b)
	if err != nil {
		return "", false
	}
	return reason, true
}
