package chain

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"decred.org/dcrwallet/v2/errors"
	"github.com/gov-power/govpower/libgov/utils"
)

const (
	finalityFinal = "final"

	// View method names exposed by the protocol contracts.
	methodGetLiquidBalance = "get_liquid_owners_balance"
	methodGetStakingPool   = "get_staking_pool_account_id"
	methodGetAccountStaked = "get_account_staked_balance"
	methodTokenToNative    = "ft_price_to_native"
	methodGetRewardFee     = "get_reward_fee_fraction"
	methodGetPoolOwner     = "get_owner_id"
	methodGetTotalStaked   = "get_total_staked_balance"
)

// Client is a read-only state query client backed by a JSON-RPC node
// endpoint. It implements StateQuery. Change-method calls are not made
// here; those go through the embedder's wallet (the Caller boundary).
type Client struct {
	url  string
	http *utils.Client
}

// NewClient returns a state query client for the given node RPC URL.
func NewClient(url string) *Client {
	return &Client{
		url:  url,
		http: utils.NewClient(),
	}
}

func (c *Client) rpc(ctx context.Context, method string, params interface{}, result interface{}) error {
	payload, err := json.Marshal(&rpcRequest{
		JSONRPC: "2.0",
		ID:      "govpower",
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}

	var resp struct {
		Result json.RawMessage `json:"result"`
		Error  *rpcError       `json:"error"`
	}
	err = c.http.Do(ctx, &utils.ReqConfig{
		Payload: payload,
		Method:  http.MethodPost,
		HTTPURL: c.url,
	}, &resp)
	if err != nil {
		return errors.Errorf("%s: %v", utils.ErrNotConnected, err)
	}
	if resp.Error != nil {
		return errors.Errorf("rpc error %d: %s %s", resp.Error.Code, resp.Error.Message, resp.Error.Data)
	}

	return json.Unmarshal(resp.Result, result)
}

// ViewFunction performs a read-only contract function call and unmarshals
// the function's JSON return value into out.
func (c *Client) ViewFunction(ctx context.Context, accountID, method string, args interface{}, out interface{}) error {
	rawArgs, err := json.Marshal(args)
	if err != nil {
		return err
	}

	var result callFunctionResult
	err = c.rpc(ctx, "query", &queryParams{
		RequestType: "call_function",
		Finality:    finalityFinal,
		AccountID:   accountID,
		MethodName:  method,
		ArgsBase64:  base64.StdEncoding.EncodeToString(rawArgs),
	}, &result)
	if err != nil {
		return err
	}
	for _, l := range result.Logs {
		log.Tracef("%s.%s log: %s", accountID, method, l)
	}

	return json.Unmarshal(result.Result, out)
}

// LockupDeployed reports whether the lockup contract account exists on
// chain. A does-not-exist RPC failure is not an error; any other failure
// is.
func (c *Client) LockupDeployed(ctx context.Context, accountID string) (bool, error) {
	var view accountView
	err := c.rpc(ctx, "query", &queryParams{
		RequestType: "view_account",
		Finality:    finalityFinal,
		AccountID:   accountID,
	}, &view)
	if err != nil {
		if isUnknownAccount(err) {
			return false, nil
		}
		return false, err
	}

	// An account with no contract deployed has the canonical empty code
	// hash of all-ones base58.
	return view.CodeHash != "" && view.CodeHash != "11111111111111111111111111111111", nil
}

// LiquidBalance returns the liquid balance inside the lockup contract.
func (c *Client) LiquidBalance(ctx context.Context, lockupID string) (string, error) {
	var balance string
	err := c.ViewFunction(ctx, lockupID, methodGetLiquidBalance, struct{}{}, &balance)
	if err != nil {
		if isUnknownAccount(err) {
			// No lockup yet means nothing is liquid inside it.
			return "0", nil
		}
		return "", err
	}
	return balance, nil
}

// SelectedPool returns the staking pool currently selected by the lockup
// contract, or "" when none is selected.
func (c *Client) SelectedPool(ctx context.Context, lockupID string) (string, error) {
	var pool *string
	err := c.ViewFunction(ctx, lockupID, methodGetStakingPool, struct{}{}, &pool)
	if err != nil {
		if isUnknownAccount(err) {
			return "", nil
		}
		return "", err
	}
	if pool == nil {
		return "", nil
	}
	return *pool, nil
}

// PoolDeposit returns the balance the lockup contract has deposited in the
// given staking pool.
func (c *Client) PoolDeposit(ctx context.Context, lockupID, poolID string) (string, error) {
	var staked string
	args := struct {
		AccountID string `json:"account_id"`
	}{AccountID: lockupID}
	err := c.ViewFunction(ctx, poolID, methodGetAccountStaked, &args, &staked)
	if err != nil {
		if isUnknownAccount(err) {
			return "0", nil
		}
		return "", err
	}
	return staked, nil
}

// VotingPowerEquivalent converts a token amount into its native-token
// voting-power equivalent. The token contract rounds down; this client
// never adjusts the figure upward.
func (c *Client) VotingPowerEquivalent(ctx context.Context, tokenID, amount string) (string, error) {
	var equivalent string
	args := struct {
		Amount string `json:"amount"`
	}{Amount: amount}
	err := c.ViewFunction(ctx, tokenID, methodTokenToNative, &args, &equivalent)
	if err != nil {
		return "", err
	}
	return equivalent, nil
}

// PoolInfo reads a staking pool's owner, reward fee and total staked
// balance from its contract.
func (c *Client) PoolInfo(ctx context.Context, poolID string) (*PoolInfo, error) {
	var fee rewardFeeFraction
	if err := c.ViewFunction(ctx, poolID, methodGetRewardFee, struct{}{}, &fee); err != nil {
		return nil, err
	}

	var ownerID string
	if err := c.ViewFunction(ctx, poolID, methodGetPoolOwner, struct{}{}, &ownerID); err != nil {
		return nil, err
	}

	var totalStaked string
	if err := c.ViewFunction(ctx, poolID, methodGetTotalStaked, struct{}{}, &totalStaked); err != nil {
		return nil, err
	}

	return &PoolInfo{
		PoolID:         poolID,
		OwnerID:        ownerID,
		FeeNumerator:   fee.Numerator,
		FeeDenominator: fee.Denominator,
		TotalStaked:    totalStaked,
	}, nil
}

func isUnknownAccount(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNKNOWN_ACCOUNT") ||
		strings.Contains(msg, "does not exist")
}
