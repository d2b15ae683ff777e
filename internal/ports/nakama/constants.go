package nakama

const (
	// RpcNewMatch is the Nakama RPC id clients call to open a fresh solitaire table.
	RpcNewMatch = "klondike_new_match"

	// MatchNameKlondike is the authoritative match handler name registered with Nakama.
	MatchNameKlondike = "klondike_match"

	configPath = "data/klondike.yaml"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpNewGame           int64 = 1
	OpStockClicked      int64 = 2
	OpWasteClicked      int64 = 3
	OpTableauClicked    int64 = 4
	OpFoundationClicked int64 = 5
	OpBackgroundClicked int64 = 6

	// Server -> Client events
	OpTableSnapshot int64 = 101
	OpNotice        int64 = 102
	OpGameWon       int64 = 103
	OpGameError     int64 = 104
)
