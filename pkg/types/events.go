package types

// Client -> Server (envelope: { "event": string, "data": object })
// joinRoom:
//   room: string
//   clientId: string
//
// takeSeat:
//   room: string
//   playerName: string
//
// passRoles:
//   room: string
//   privatePlayers: Array<{ player: { name: string }, assignedCharacter: string }>
//
// startGame:
//   room: string
//   script: string
//   isStarted: boolean
//   gameStartedOn: string
//   players: array
//
// updateGameState: same shape as startGame (host only)

// Server -> Client (envelope: { "event": string, "data": any })
// role:
//   role: "story-teller" | "spectator"
//
// updateGameState:
//   room: string
//   script: string
//   isStarted: boolean
//   gameStartedOn: string
//   players: array // echoed verbatim from the host
//
// tookSeat:
//   data is the bare player name (string)
//
// stoodUpFromSeat:
//   data is the bare player name (string)
//
// assignedRole (sent only to that player's connection):
//   name: string
//   role: string
//
// error:
//   message: string
