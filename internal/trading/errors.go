package trading

import "errors"

// Expected gameplay failures. Every one of these rejects the operation
// before any state change; callers match with errors.Is.
var (
	// ErrValidation covers malformed orders: non-positive amounts,
	// unknown assets, locked assets.
	ErrValidation = errors.New("invalid order")

	// ErrInsufficientFunds rejects a BUY whose fee-inclusive cost exceeds
	// available cash.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientHoldings rejects a SELL for more units than held.
	ErrInsufficientHoldings = errors.New("insufficient holdings")

	// ErrAssetRugged rejects any trade against a rugged asset. This is a
	// terminal condition, not a transient one: the asset never trades again.
	ErrAssetRugged = errors.New("asset rugged")

	// ErrMarketClosed rejects trades while the trading window is shut.
	// Callers may retry once the market reopens; nothing is queued.
	ErrMarketClosed = errors.New("market closed")

	// ErrBlacklisted rejects all trading for a blacklisted player.
	ErrBlacklisted = errors.New("player blacklisted")
)
