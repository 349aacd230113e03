package engine

import (
	"fmt"
	"sort"
)

// SeatTable tracks seat occupancy and the dealer/blind positions. Seats are
// numbered 1..maxPlayers and may be sparse.
type SeatTable struct {
	maxPlayers int
	seats      map[int]*Player

	dealer     int
	smallBlind int
	bigBlind   int
}

// NewSeatTable creates an empty seat table
func NewSeatTable(maxPlayers int) *SeatTable {
	return &SeatTable{
		maxPlayers: maxPlayers,
		seats:      make(map[int]*Player),
	}
}

// RestoreSeatTable builds a fully-formed seat table from existing players.
// Used when reconstructing a table from a serialized state, and by tests
// that need a mid-hand seating arrangement.
func RestoreSeatTable(maxPlayers, dealer, smallBlind, bigBlind int, players []*Player) *SeatTable {
	st := NewSeatTable(maxPlayers)
	st.dealer = dealer
	st.smallBlind = smallBlind
	st.bigBlind = bigBlind
	for _, p := range players {
		st.seats[p.Seat] = p
	}
	return st
}

// FindNextEmptySeat returns the lowest unoccupied seat number, or false if
// the table is full
func (st *SeatTable) FindNextEmptySeat() (int, bool) {
	for seat := 1; seat <= st.maxPlayers; seat++ {
		if st.seats[seat] == nil {
			return seat, true
		}
	}
	return 0, false
}

// Join seats a player. The caller is responsible for buy-in validation.
func (st *SeatTable) Join(p *Player, seat int) error {
	if st.Player(p.Address) != nil {
		return ErrDuplicateJoin
	}
	if seat == 0 {
		next, ok := st.FindNextEmptySeat()
		if !ok {
			return ErrTableFull
		}
		seat = next
	}
	if seat < 1 || seat > st.maxPlayers {
		return fmt.Errorf("%w: seat %d out of range", ErrIllegalAction, seat)
	}
	if st.seats[seat] != nil {
		return fmt.Errorf("%w: seat %d occupied", ErrTableFull, seat)
	}
	p.Seat = seat
	st.seats[seat] = p
	return nil
}

// Remove unseats a player
func (st *SeatTable) Remove(address string) {
	for seat, p := range st.seats {
		if p.Address == address {
			delete(st.seats, seat)
			return
		}
	}
}

// Player returns the seated player with the given address, or nil
func (st *SeatTable) Player(address string) *Player {
	for _, p := range st.seats {
		if p.Address == address {
			return p
		}
	}
	return nil
}

// PlayerAt returns the player in the given seat, or nil
func (st *SeatTable) PlayerAt(seat int) *Player {
	return st.seats[seat]
}

// Players returns all seated players in seat order
func (st *SeatTable) Players() []*Player {
	players := make([]*Player, 0, len(st.seats))
	for _, p := range st.seats {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Seat < players[j].Seat })
	return players
}

// Count returns the number of seated players
func (st *SeatTable) Count() int {
	return len(st.seats)
}

// Dealer returns the dealer seat number
func (st *SeatTable) Dealer() int { return st.dealer }

// SmallBlindSeat returns the small blind seat number
func (st *SeatTable) SmallBlindSeat() int { return st.smallBlind }

// BigBlindSeat returns the big blind seat number
func (st *SeatTable) BigBlindSeat() int { return st.bigBlind }

// NextSeat scans clockwise from the seat after `from`, wrapping around, and
// returns the first seat whose occupant satisfies the predicate. Returns 0
// if no seat matches.
func (st *SeatTable) NextSeat(from int, match func(*Player) bool) int {
	for i := 1; i <= st.maxPlayers; i++ {
		seat := (from+i-1)%st.maxPlayers + 1
		if p := st.seats[seat]; p != nil && match(p) {
			return seat
		}
	}
	return 0
}

// playing reports whether a player participates in hands (seated with a
// status other than BUSTED or SITTING_OUT)
func playing(p *Player) bool {
	return p.Status != StatusBusted && p.Status != StatusSittingOut
}

// SetPositions fixes the dealer seat and derives the blind seats from it.
// Heads-up the dealer posts the small blind; otherwise the blinds sit
// clockwise from the button, skipping empty and non-playing seats.
func (st *SeatTable) SetPositions(dealer int) {
	if p := st.seats[dealer]; p == nil || !playing(p) {
		dealer = st.NextSeat(dealer, playing)
	}
	st.dealer = dealer
	if dealer == 0 {
		st.smallBlind, st.bigBlind = 0, 0
		return
	}

	count := 0
	for _, p := range st.seats {
		if playing(p) {
			count++
		}
	}
	if count == 2 {
		st.smallBlind = dealer
		st.bigBlind = st.NextSeat(dealer, playing)
		return
	}
	st.smallBlind = st.NextSeat(dealer, playing)
	st.bigBlind = st.NextSeat(st.smallBlind, playing)
}

// RotateButton advances the dealer to the next playing seat and repositions
// the blinds
func (st *SeatTable) RotateButton() {
	st.SetPositions(st.NextSeat(st.dealer, playing))
}

// ActivePlayers returns players who can still take betting actions
func (st *SeatTable) ActivePlayers() []*Player {
	var out []*Player
	for _, p := range st.Players() {
		if p.Status == StatusActive {
			out = append(out, p)
		}
	}
	return out
}

// LivePlayers returns players with a claim on the pot (active, all-in or
// showing)
func (st *SeatTable) LivePlayers() []*Player {
	var out []*Player
	for _, p := range st.Players() {
		if p.inHand() {
			out = append(out, p)
		}
	}
	return out
}

// NonBustedCount returns the number of players still in the game
func (st *SeatTable) NonBustedCount() int {
	count := 0
	for _, p := range st.seats {
		if p.Status != StatusBusted {
			count++
		}
	}
	return count
}
