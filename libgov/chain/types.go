package chain

// rpcRequest is the JSON-RPC 2.0 envelope sent to the node endpoint.
type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

// rpcError is the error member of a JSON-RPC response.
type rpcError struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

// queryParams models a read-only contract function call request.
type queryParams struct {
	RequestType string `json:"request_type"`
	Finality    string `json:"finality"`
	AccountID   string `json:"account_id"`
	MethodName  string `json:"method_name,omitempty"`
	ArgsBase64  string `json:"args_base64,omitempty"`
}

// callFunctionResult is the result member of a call_function query.
type callFunctionResult struct {
	Result []byte   `json:"result"`
	Logs   []string `json:"logs"`
}

// accountView is the result member of a view_account query.
type accountView struct {
	Amount      string `json:"amount"`
	Locked      string `json:"locked"`
	StorageUsed uint64 `json:"storage_usage"`
	CodeHash    string `json:"code_hash"`
}

// rewardFeeFraction is the fee a staking pool takes from rewards.
type rewardFeeFraction struct {
	Numerator   int64 `json:"numerator"`
	Denominator int64 `json:"denominator"`
}

// PoolInfo describes a staking pool as read from its contract.
type PoolInfo struct {
	PoolID         string `json:"pool_id"`
	OwnerID        string `json:"owner_id"`
	FeeNumerator   int64  `json:"fee_numerator"`
	FeeDenominator int64  `json:"fee_denominator"`
	TotalStaked    string `json:"total_staked"`
}
