package nakama

// MatchNameRecall is the authoritative match handler name registered with Nakama.
const MatchNameRecall = "recall_match"

// Op codes for client <-> server messages. Recall exchanges JSON payloads
// rather than protobuf: the client action vocabulary (spec.md §6) already
// is a flat field map, so an envelope opcode plus a JSON body needs no
// generated wire types.
const (
	// OpAction: client -> server, body is the raw action field map
	// (action/action_type plus whatever fields that tag needs).
	OpAction int64 = 1

	// OpState: server -> client, body is a full client-view table
	// snapshot (internal/view.Table), broadcast to every presence.
	OpState int64 = 101

	// OpEvent: server -> client, body is {"event": name, "payload": ...},
	// targeted at one player via Notifier.SendToPlayer.
	OpEvent int64 = 102
)

const (
	defaultMaxPlayers = 4
	defaultMinPlayers = 2
)
