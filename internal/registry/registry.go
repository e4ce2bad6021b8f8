// Package registry holds the static lookup tables the scoring pipeline
// consults: known function selectors, known event topics, known
// contracts (trusted and scam), and the red-flag catalogue. Every table
// here is initialized once at package load and never mutated — there is
// no Add/Remove API, by design: trusted and scam lookups must stay
// mutually exclusive, which a runtime-mutable table cannot guarantee.
package registry

import (
	"math/big"
	"strings"

	"github.com/rawblock/shield-engine/pkg/models"
)

// MaxUint256 and UnlimitedThreshold are package-level so every caller
// shares the same big.Int instances instead of re-parsing the literal.
var (
	MaxUint256         = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	UnlimitedThreshold = new(big.Int).Rsh(MaxUint256, 1)
)

// FunctionSignature describes one known 4-byte selector.
type FunctionSignature struct {
	Name        string
	Type        string
	Risk        string // low/medium/high
	Description string
}

// EventSignature describes one known 32-byte event topic.
type EventSignature struct {
	Name string
	Type string
}

// KnownContract describes a pre-classified address.
type KnownContract struct {
	Name    string
	Type    string
	Trusted bool
}

// FunctionSignatures maps a lowercase 10-char selector (0x + 8 hex) to
// its known meaning. Mirrors the widely-used selectors for ERC-20,
// ERC-721, Uniswap V2/V3, WETH and the Universal Router.
var FunctionSignatures = map[string]FunctionSignature{
	"0x095ea7b3": {"approve", "ERC-20", "medium", "Token spending approval"},
	"0xa9059cbb": {"transfer", "ERC-20", "low", "Token transfer"},
	"0x23b872dd": {"transferFrom", "ERC-20", "low", "Token transfer (delegated)"},
	"0xa22cb465": {"setApprovalForAll", "ERC-721", "high", "NFT collection approval"},
	"0x42842e0e": {"safeTransferFrom", "ERC-721", "low", "Safe NFT transfer"},
	"0x38ed1739": {"swapExactTokensForTokens", "Uniswap V2", "low", "DEX swap"},
	"0x7ff36ab5": {"swapExactETHForTokens", "Uniswap V2", "low", "ETH -> token swap"},
	"0x18cbafe5": {"swapExactTokensForETH", "Uniswap V2", "low", "Token -> ETH swap"},
	"0xe8e33700": {"addLiquidity", "Uniswap V2", "low", "Add LP"},
	"0xf305d719": {"addLiquidityETH", "Uniswap V2", "low", "Add LP with ETH"},
	"0x414bf389": {"exactInputSingle", "Uniswap V3", "low", "Single-hop swap"},
	"0xc04b8d59": {"exactInput", "Uniswap V3", "low", "Multi-hop swap"},
	"0xac9650d8": {"multicall", "Uniswap V3", "medium", "Batched calls"},
	"0xd0e30db0": {"deposit", "WETH", "low", "Wrap ETH"},
	"0x2e1a7d4d": {"withdraw", "WETH", "low", "Unwrap ETH"},
	"0x3593564c": {"execute", "Universal Router", "medium", "Universal router execution"},
}

// EventSignatures maps a lowercase 66-char topic0 to its known meaning.
var EventSignatures = map[string]EventSignature{
	"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef": {"Transfer", "ERC-20/721"},
	"0x8c5be1e5ebec7d5bd14f71427d1e84f3dd0314c0f7b2291e5b200ac8c7c3b925": {"Approval", "ERC-20"},
	"0x17307eab39ab6107e8899845ad3d59bd9653f200f220920489ca2b5937696c31": {"ApprovalForAll", "ERC-721"},
	"0xd78ad95fa46c994b6551d0da85fc275fe613ce37657fb8d5e3d130840159d822": {"Swap", "Uniswap V2"},
	"0xc42079f94a6350d7e6235f29174924f928cc2ac818eb64fed8004e115fbcca67": {"Swap", "Uniswap V3"},
	"0x1c411e9a96e071241c2f21f7726b17ae89e3cab4c78be50e062b03a9fffbbad1": {"Sync", "Uniswap V2"},
}

// ApprovalTopic0 is the topic0 the approval scanner filters logs on.
const ApprovalTopic0 = "0x8c5be1e5ebec7d5bd14f71427d1e84f3dd0314c0f7b2291e5b200ac8c7c3b925"

// ApproveSelector is the 4-byte selector used both to decode inbound
// approve() calls and to build outbound revoke calldata.
const ApproveSelector = "0x095ea7b3"

// KnownContracts maps a lowercase address to its classification.
// Mainnet addresses; used as-is across chains for simplicity since the
// same protocols commonly redeploy at identical or well-known addresses.
var KnownContracts = map[string]KnownContract{
	"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48": {"USDC", "ERC-20", true},
	"0xdac17f958d2ee523a2206206994597c13d831ec7": {"USDT", "ERC-20", true},
	"0x6b175474e89094c44da98b954eedeac495271d0f": {"DAI", "ERC-20", true},
	"0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2": {"WETH", "ERC-20", true},
	"0x2260fac5e5542a773aa44fbcfedf7c193bc2c599": {"WBTC", "ERC-20", true},
	"0x514910771af9ca656af840dff83e8264ecf986ca": {"LINK", "ERC-20", true},
	"0x1f9840a85d5af5bf1d1762f925bdaddc4201f984": {"UNI", "ERC-20", true},
	"0x7a250d5630b4cf539739df2c5dacb4c659f2488d": {"Uniswap V2 Router", "DEX", true},
	"0xe592427a0aece92de3edee1f18e0157c05861564": {"Uniswap V3 Router", "DEX", true},
	"0x68b3465833fb72a70ecdf485e0e4c7bd8665fc45": {"Uniswap V3 Router 02", "DEX", true},
	"0x3fc91a3afd70395cd496c647d5a6cc9d4b2b7fad": {"Uniswap Universal Router", "DEX", true},
	"0xd9e1ce17f2641f24ae83637ab66a2cca9c378b9f": {"SushiSwap Router", "DEX", true},
	"0x1111111254eeb25477b68fb85ed929f73a960582": {"1inch V5 Router", "DEX", true},
	"0x00000000000000adc04c56bf30ac9d3c0aaf14dc": {"OpenSea Seaport 1.5", "NFT", true},
	"0x7d2768de32b0b80b7a3454c06bdac94a69ddc7a9": {"Aave V2", "Lending", true},
	"0x87870bca3f3fd6335c3f4ce8392d69350b4fa4e2": {"Aave V3", "Lending", true},
	"0x3d9819210a31b4961b30ef54be2aed79b9c9cd3b": {"Compound Comptroller", "Lending", true},
}

// KnownScamAddresses are addresses the registry flags outright, bypassing
// any further analysis.
var KnownScamAddresses = map[string]bool{
	"0x0000000000000000000000000000000000000000": true,
	"0x000000000000000000000000000000000000dead": true,
	"0xbad00000000000000000000000000000000bad01": true,
	"0xbad00000000000000000000000000000000bad02": true,
	"0xbad00000000000000000000000000000000bad03": true,
}

// LookupSelector returns the known signature for a function selector,
// matching on the first 10 characters (0x + 8 hex) of the input.
func LookupSelector(selector string) (FunctionSignature, bool) {
	s := strings.ToLower(selector)
	if len(s) > 10 {
		s = s[:10]
	}
	sig, ok := FunctionSignatures[s]
	return sig, ok
}

// LookupEvent returns the known signature for an event topic0.
func LookupEvent(topic0 string) (EventSignature, bool) {
	sig, ok := EventSignatures[strings.ToLower(topic0)]
	return sig, ok
}

// LookupContract returns the known classification for an address.
func LookupContract(address string) (KnownContract, bool) {
	c, ok := KnownContracts[models.NormalizeAddress(address)]
	return c, ok
}

// IsKnownScam reports whether an address is on the scam list. A known
// address can never also satisfy LookupContract's trusted flag — both
// tables are disjoint by construction (checked in registry_test.go).
func IsKnownScam(address string) bool {
	return KnownScamAddresses[models.NormalizeAddress(address)]
}
