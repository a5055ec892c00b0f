package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a room.
	RpcQuickMatch = "quick_match"

	// MatchNameDuelo is the authoritative match handler name registered with Nakama.
	MatchNameDuelo = "duelo_match"

	// GameLabelName identifies this game in match label queries.
	GameLabelName = "duelo"
)

// Op codes for client commands and server events.
const (
	// Client -> Server
	OpPlaceBet   int64 = 1
	OpDecideCard int64 = 2
	OpPlayCard   int64 = 3
	OpApplyScore int64 = 4
	OpRoundAck   int64 = 5
	OpResetGame  int64 = 6
	OpPing       int64 = 7

	// Server -> Client events
	OpJoined                int64 = 101 // send privately
	OpRoundStarted          int64 = 102
	OpBothReady             int64 = 103
	OpBetsLocked            int64 = 104
	OpUpdateState           int64 = 105
	OpStartDecided          int64 = 106
	OpDoctorManhattanReveal int64 = 107
	OpScoreChoice           int64 = 108 // send privately to the duel winner
	OpRoundResult           int64 = 109
	OpGameOver              int64 = 110
	OpGameReset             int64 = 111
	OpPlayerLeft            int64 = 112
	OpRoomClosed            int64 = 113
	OpInvalidAction         int64 = 114 // send privately
	OpPong                  int64 = 115 // send privately
)
