package gandengyan

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"gandengyan-server/internal/rng"
	"gandengyan-server/pkg/deck"
	"gandengyan-server/pkg/playable"
	"gandengyan-server/pkg/playable/gandengyan/handshape"
	"gandengyan-server/pkg/snapshot"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, players int) *Session {
	t.Helper()

	s := NewSession(logrus.StandardLogger(), "room-1", Options{
		MaxPlayers: players,
		Generator:  rng.NewSeeded(42),
	})

	for i := 1; i <= players; i++ {
		require.NoError(t, s.AddPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i)))
	}

	return s
}

// rig replaces the dealt cards so that seat 0 leads with known hands
func rig(s *Session, drawPile string, hands ...string) {
	for i, h := range hands {
		s.players[i].hand = deck.Hand(deck.CardsFromString(h))
		s.players[i].hand.Sort()
	}

	s.deck.Cards = deck.CardsFromString(drawPile)
	s.discardPile = []*deck.Card{}
	s.phase = PhasePlaying
	s.currentPlayerIndex = 0
	s.lastPlay = nil
	s.lastPlayerID = ""
	s.passed = make(map[string]bool)
	s.winner = ""
}

func totalCards(s *Session) int {
	n := s.DrawPileCount() + s.DiscardPileCount()
	for _, p := range s.players {
		n += p.CardCount()
	}

	return n
}

func handOf(s *Session, playerID string) string {
	return deck.CardsToString(s.idToPlayer[playerID].Hand())
}

func TestNewSession(t *testing.T) {
	s := NewSession(nil, "abc", Options{MaxPlayers: 1})
	assert.Equal(t, 2, s.MaxPlayers())
	assert.Equal(t, PhaseWaiting, s.Phase())
	assert.Equal(t, 0, s.DrawPileCount())
	assert.Equal(t, "gandengyan", s.Name())
	assert.Equal(t, "abc", s.ID())
	assert.Equal(t, "", s.CurrentPlayerID())

	s = NewSession(nil, "abc", Options{MaxPlayers: 9})
	assert.Equal(t, 6, s.MaxPlayers())

	s = NewSession(nil, "abc", DefaultOptions())
	assert.Equal(t, 2, s.MaxPlayers())
}

func TestSession_AddPlayer(t *testing.T) {
	s := NewSession(nil, "room", Options{MaxPlayers: 2})
	assert.NoError(t, s.AddPlayer("a", "Alice"))
	assert.Equal(t, ErrAlreadySeated, s.AddPlayer("a", "Alice"))
	assert.NoError(t, s.AddPlayer("b", "Bob"))
	assert.True(t, s.IsFull())

	err := s.AddPlayer("c", "Carol")
	assert.Equal(t, ErrRoomFull, err)
	assert.Equal(t, CapacityViolation, ViolationOf(err))
	assert.Equal(t, 2, s.PlayerCount())

	assert.NoError(t, s.RemovePlayer("b"))
	assert.NoError(t, s.AddPlayer("c", "Carol"))
	assert.NoError(t, s.Start())

	err = s.AddPlayer("d", "Dave")
	assert.Equal(t, ErrGameInProgress, err)
	assert.Equal(t, PhaseViolation, ViolationOf(err))
}

func TestSession_Start(t *testing.T) {
	s := NewSession(nil, "room", Options{MaxPlayers: 4, Generator: rng.NewSeeded(1)})
	assert.Equal(t, ErrNotEnoughPlayers, s.Start())

	require.NoError(t, s.AddPlayer("a", "Alice"))
	assert.Equal(t, ErrNotEnoughPlayers, s.Start())

	require.NoError(t, s.AddPlayer("b", "Bob"))
	require.NoError(t, s.AddPlayer("c", "Carol"))
	assert.NoError(t, s.Start())
	assert.Equal(t, PhasePlaying, s.Phase())
	assert.Equal(t, ErrGameInProgress, s.Start())

	for _, p := range s.players {
		if p.ID == s.CurrentPlayerID() {
			assert.Equal(t, HandSize+1, p.CardCount())
		} else {
			assert.Equal(t, HandSize, p.CardCount())
		}

		hand := deck.Hand(p.Hand())
		sorted := hand.Clone()
		sorted.Sort()
		assert.Equal(t, sorted.String(), hand.String())
	}

	assert.Equal(t, deck.Size-16, s.DrawPileCount())
	assert.Equal(t, 0, s.DiscardPileCount())
	assert.Equal(t, deck.Size, totalCards(s))
	assert.Nil(t, s.LastPlay())
}

func TestSession_EndToEnd(t *testing.T) {
	s := newTestSession(t, 2)
	require.NoError(t, s.Start())

	opener := s.CurrentPlayerID()
	p := s.idToPlayer[opener]
	require.Equal(t, 6, p.CardCount())

	var opponent string
	for _, other := range s.players {
		if other.ID != opener {
			opponent = other.ID
		}
	}

	assert.Equal(t, ErrMustLead, s.Pass(opener))

	card := p.lowestCard()
	assert.NoError(t, s.PlayCards(opener, []*deck.Card{card}))
	assert.Equal(t, opponent, s.CurrentPlayerID())
	assert.Equal(t, handshape.Single, s.LastPlay().Shape)
	assert.Equal(t, 5, p.CardCount())

	assert.NoError(t, s.Pass(opponent))
	assert.Nil(t, s.LastPlay())
	assert.Equal(t, 0, s.ConsecutivePasses())
	assert.Equal(t, opener, s.CurrentPlayerID())
	assert.Equal(t, 6, p.CardCount())
	assert.Equal(t, deck.Size-12, s.DrawPileCount())
	assert.Equal(t, 1, s.DiscardPileCount())
	assert.Equal(t, deck.Size, totalCards(s))
}

func TestSession_PlayCards_Violations(t *testing.T) {
	s := newTestSession(t, 2)

	err := s.PlayCards("p1", deck.CardsFromString("3c"))
	assert.Equal(t, ErrGameNotStarted, err)
	assert.Equal(t, PhaseViolation, ViolationOf(err))

	require.NoError(t, s.Start())
	rig(s, "Kd", "3c,5d,9h,9s,sj", "4c,8h,10d,10h,Ac")

	err = s.PlayCards("p2", deck.CardsFromString("4c"))
	assert.Equal(t, ErrNotPlayersTurn, err)
	assert.Equal(t, TurnViolation, ViolationOf(err))

	assert.Equal(t, ErrPlayerNotFound, s.PlayCards("nobody", deck.CardsFromString("3c")))

	err = s.PlayCards("p1", deck.CardsFromString("4c"))
	assert.Equal(t, ErrCardNotInHand, err)
	assert.Equal(t, OwnershipViolation, ViolationOf(err))

	err = s.PlayCards("p1", deck.CardsFromString("3c,5d"))
	assert.True(t, errors.Is(err, handshape.ErrInvalidShape))
	assert.Equal(t, ShapeViolation, ViolationOf(err))

	err = s.PlayCards("p1", deck.CardsFromString("9h,9h"))
	assert.Equal(t, ShapeViolation, ViolationOf(err))

	err = s.PlayCards("p1", nil)
	assert.Equal(t, ShapeViolation, ViolationOf(err))

	// nothing changed
	assert.Equal(t, "3c,5d,9h,9s,sj", handOf(s, "p1"))
	assert.Equal(t, "p1", s.CurrentPlayerID())
	assert.Equal(t, 0, s.DiscardPileCount())

	assert.NoError(t, s.PlayCards("p1", deck.CardsFromString("9h,9s")))
	assert.Equal(t, 9, s.LastPlay().Value)

	err = s.PlayCards("p2", deck.CardsFromString("4c"))
	assert.True(t, errors.Is(err, handshape.ErrShapeMismatch))
	assert.Equal(t, BeatViolation, ViolationOf(err))

	err = s.PlayCards("p2", deck.CardsFromString("8h,Ac"))
	assert.Equal(t, ShapeViolation, ViolationOf(err))

	assert.Equal(t, "4c,8h,10d,10h,Ac", handOf(s, "p2"))
	assert.NoError(t, s.PlayCards("p2", deck.CardsFromString("10h,10d")))
	assert.Equal(t, handshape.Pair, s.LastPlay().Shape)
	assert.Equal(t, 10, s.LastPlay().Value)
	assert.Equal(t, "p2", s.LastPlay().PlayerID)
	assert.Equal(t, 4, s.DiscardPileCount())
}

func TestSession_PlayCards_UsesHandCards(t *testing.T) {
	s := newTestSession(t, 2)
	require.NoError(t, s.Start())
	rig(s, "", "3c,5d", "4c,6h")

	forged := &deck.Card{ID: "clubs_3", Value: 99, Rank: deck.Two}
	assert.NoError(t, s.PlayCards("p1", []*deck.Card{forged}))
	assert.Equal(t, 3, s.LastPlay().Value)
	assert.Equal(t, deck.Three, s.LastPlay().Cards[0].Rank)
}

func TestSession_Pass(t *testing.T) {
	s := newTestSession(t, 3)
	require.NoError(t, s.Start())
	rig(s, "Qd,Kd", "3c,8d", "4c,9d", "5c,10d")

	assert.Equal(t, ErrMustLead, s.Pass("p1"))
	assert.Equal(t, ErrNotPlayersTurn, s.Pass("p2"))

	require.NoError(t, s.PlayCards("p1", deck.CardsFromString("8d")))
	assert.NoError(t, s.Pass("p2"))
	assert.Equal(t, 1, s.ConsecutivePasses())
	assert.Equal(t, "p3", s.CurrentPlayerID())

	// one pass does not close a round for three players
	assert.NotNil(t, s.LastPlay())

	assert.NoError(t, s.Pass("p3"))
	assert.Nil(t, s.LastPlay())
	assert.Equal(t, 0, s.ConsecutivePasses())
	assert.Equal(t, "p1", s.CurrentPlayerID())
	assert.Equal(t, "3c,Qd", handOf(s, "p1"))
	assert.Equal(t, 1, s.DrawPileCount())
}

func TestSession_PassResetsOnPlay(t *testing.T) {
	s := newTestSession(t, 3)
	require.NoError(t, s.Start())
	rig(s, "Qd", "3c,8d", "4c,9d", "5c,10d")

	require.NoError(t, s.PlayCards("p1", deck.CardsFromString("8d")))
	require.NoError(t, s.Pass("p2"))
	require.NoError(t, s.PlayCards("p3", deck.CardsFromString("10d")))
	assert.Equal(t, 0, s.ConsecutivePasses())
	assert.Equal(t, "p3", s.LastPlay().PlayerID)

	require.NoError(t, s.Pass("p1"))
	require.NoError(t, s.Pass("p2"))
	assert.Nil(t, s.LastPlay())
	assert.Equal(t, "p3", s.CurrentPlayerID())
	assert.Equal(t, "5c,Qd", handOf(s, "p3"))
}

func TestSession_Reshuffle(t *testing.T) {
	s := newTestSession(t, 2)
	require.NoError(t, s.Start())
	rig(s, "", "3c,9d", "4c,5c")
	s.discardPile = deck.CardsFromString("6h,7h")

	require.NoError(t, s.PlayCards("p1", deck.CardsFromString("9d")))
	require.NoError(t, s.Pass("p2"))

	// the play that closed the round stays on the table
	assert.Equal(t, "9d", deck.CardsToString(s.discardPile))
	assert.Equal(t, 1, s.DrawPileCount())
	assert.Equal(t, 2, s.idToPlayer["p1"].CardCount())
	assert.Equal(t, 6, totalCards(s))

	drawn := s.idToPlayer["p1"].hand.LastCard()
	assert.Contains(t, []string{"6h", "7h"}, deck.CardToString(drawn))
}

func TestSession_ReshuffleNothingToDraw(t *testing.T) {
	s := newTestSession(t, 2)
	require.NoError(t, s.Start())
	rig(s, "", "3c,9d", "4c,5c")

	require.NoError(t, s.PlayCards("p1", deck.CardsFromString("9d")))
	require.NoError(t, s.Pass("p2"))

	assert.Equal(t, "3c", handOf(s, "p1"))
	assert.Equal(t, 0, s.DrawPileCount())
	assert.Equal(t, 1, s.DiscardPileCount())
	assert.Equal(t, "p1", s.CurrentPlayerID())
}

func TestSession_Win(t *testing.T) {
	s := newTestSession(t, 2)
	require.NoError(t, s.Start())
	rig(s, "Kd", "3c,4d", "5c,6d")

	require.NoError(t, s.PlayCards("p1", deck.CardsFromString("4d")))
	require.NoError(t, s.PlayCards("p2", deck.CardsFromString("6d")))
	require.NoError(t, s.Pass("p1"))
	assert.Equal(t, "p2", s.CurrentPlayerID())
	assert.Equal(t, "5c,Kd", handOf(s, "p2"))

	rig(s, "", "3c", "4c")
	require.NoError(t, s.PlayCards("p1", deck.CardsFromString("3c")))
	assert.Equal(t, PhaseFinished, s.Phase())
	assert.Equal(t, "p1", s.Winner())

	assert.Equal(t, ErrGameNotStarted, s.Pass("p2"))
	assert.Equal(t, ErrGameNotStarted, s.PlayCards("p2", deck.CardsFromString("4c")))
}

func TestSession_Rematch(t *testing.T) {
	s := newTestSession(t, 2)

	_, err := s.RequestRematch("p1")
	assert.Equal(t, ErrGameNotOver, err)

	require.NoError(t, s.Start())
	rig(s, "", "3c", "4c")
	require.NoError(t, s.PlayCards("p1", deck.CardsFromString("3c")))
	require.Equal(t, PhaseFinished, s.Phase())

	reset, err := s.RequestRematch("p1")
	assert.NoError(t, err)
	assert.False(t, reset)
	assert.True(t, s.idToPlayer["p1"].WantsRematch())

	// asking twice changes nothing
	reset, err = s.RequestRematch("p1")
	assert.NoError(t, err)
	assert.False(t, reset)
	assert.Equal(t, PhaseFinished, s.Phase())

	_, err = s.RequestRematch("nobody")
	assert.Equal(t, ErrPlayerNotFound, err)

	reset, err = s.RequestRematch("p2")
	assert.NoError(t, err)
	assert.True(t, reset)

	assert.Equal(t, PhasePlaying, s.Phase())
	assert.Equal(t, "p1", s.LastWinner())
	assert.Equal(t, "", s.Winner())
	assert.Equal(t, "p2", s.CurrentPlayerID())
	assert.Equal(t, 6, s.idToPlayer["p2"].CardCount())
	assert.Equal(t, 5, s.idToPlayer["p1"].CardCount())
	assert.False(t, s.idToPlayer["p1"].WantsRematch())
	assert.False(t, s.idToPlayer["p2"].WantsRematch())
	assert.Equal(t, deck.Size, totalCards(s))
}

func TestSession_RematchAlone(t *testing.T) {
	s := newTestSession(t, 2)
	require.NoError(t, s.Start())
	rig(s, "", "3c", "4c")
	require.NoError(t, s.PlayCards("p1", deck.CardsFromString("3c")))

	require.NoError(t, s.RemovePlayer("p2"))
	assert.Equal(t, PhaseFinished, s.Phase())

	reset, err := s.RequestRematch("p1")
	assert.NoError(t, err)
	assert.True(t, reset)
	assert.Equal(t, PhaseWaiting, s.Phase())
	assert.Equal(t, "p1", s.CurrentPlayerID())
	assert.Equal(t, 0, s.idToPlayer["p1"].CardCount())

	// the room can be filled again
	assert.NoError(t, s.AddPlayer("p3", "Player 3"))
	assert.NoError(t, s.Start())
	assert.Equal(t, "p1", s.CurrentPlayerID())
}

func TestSession_RematchAfterLeave(t *testing.T) {
	s := newTestSession(t, 3)
	require.NoError(t, s.Start())
	rig(s, "", "3c", "4c", "5c")
	require.NoError(t, s.PlayCards("p1", deck.CardsFromString("3c")))

	_, err := s.RequestRematch("p2")
	require.NoError(t, err)
	_, err = s.RequestRematch("p3")
	require.NoError(t, err)

	// everybody left wants a rematch
	require.NoError(t, s.RemovePlayer("p1"))
	assert.Equal(t, PhasePlaying, s.Phase())
	assert.Equal(t, "p1", s.LastWinner())
	assert.Equal(t, "p2", s.CurrentPlayerID())
}

func TestSession_ForceTimeoutEffect(t *testing.T) {
	s := newTestSession(t, 2)
	assert.Equal(t, ErrGameNotStarted, s.ForceTimeoutEffect("p1"))

	require.NoError(t, s.Start())
	rig(s, "Kd", "9d,3c,sj", "4c,5c")

	assert.Equal(t, ErrNotPlayersTurn, s.ForceTimeoutEffect("p2"))

	assert.NoError(t, s.ForceTimeoutEffect("p1"))
	assert.Equal(t, "3c", deck.CardsToString(s.LastPlay().Cards))
	assert.Equal(t, "p2", s.CurrentPlayerID())

	assert.NoError(t, s.ForceTimeoutEffect("p2"))
	assert.Nil(t, s.LastPlay())
	assert.Equal(t, "p1", s.CurrentPlayerID())
	assert.Equal(t, "9d,Kd,sj", handOf(s, "p1"))
	assert.Equal(t, "4c,5c", handOf(s, "p2"))
}

func TestSession_RemovePlayer(t *testing.T) {
	s := newTestSession(t, 3)
	assert.Equal(t, ErrPlayerNotFound, s.RemovePlayer("nobody"))

	require.NoError(t, s.Start())
	rig(s, "Qd", "3c,8d", "4c,9d", "5c,10d")

	require.NoError(t, s.PlayCards("p1", deck.CardsFromString("8d")))
	require.NoError(t, s.Pass("p2"))
	require.Equal(t, "p3", s.CurrentPlayerID())

	before := totalCards(s)
	require.NoError(t, s.RemovePlayer("p3"))
	assert.Equal(t, before, totalCards(s))
	assert.Equal(t, 3, s.DiscardPileCount())

	// p2 already passed on the only other seat, so the round is over
	assert.Equal(t, PhasePlaying, s.Phase())
	assert.Nil(t, s.LastPlay())
	assert.Equal(t, "p1", s.CurrentPlayerID())
	assert.Equal(t, "3c,Qd", handOf(s, "p1"))

	require.NoError(t, s.RemovePlayer("p2"))
	assert.Equal(t, PhaseFinished, s.Phase())
	assert.Equal(t, "", s.Winner())
}

func TestSession_RemovePlayerBeforeCurrent(t *testing.T) {
	s := newTestSession(t, 3)
	require.NoError(t, s.Start())
	rig(s, "Qd", "3c,8d", "4c,9d", "5c,10d")

	require.NoError(t, s.PlayCards("p1", deck.CardsFromString("3c")))
	require.NoError(t, s.PlayCards("p2", deck.CardsFromString("4c")))
	require.Equal(t, "p3", s.CurrentPlayerID())

	require.NoError(t, s.RemovePlayer("p1"))
	assert.Equal(t, "p3", s.CurrentPlayerID())
	assert.Equal(t, 1, s.currentPlayerIndex)
	assert.NotNil(t, s.LastPlay())

	require.NoError(t, s.PlayCards("p3", deck.CardsFromString("5c")))
	assert.Equal(t, "p2", s.CurrentPlayerID())
}

func TestSession_RemovePlayerAfterPassing(t *testing.T) {
	s := newTestSession(t, 3)
	require.NoError(t, s.Start())
	rig(s, "Qd,Kd", "3c,8d", "4c,9d", "5c,10d")

	require.NoError(t, s.PlayCards("p1", deck.CardsFromString("8d")))
	require.NoError(t, s.Pass("p2"))
	require.Equal(t, 1, s.ConsecutivePasses())

	// the pass leaves with the player, p3 still has to answer the 8
	require.NoError(t, s.RemovePlayer("p2"))
	require.NotNil(t, s.LastPlay())
	assert.Equal(t, "p1", s.LastPlay().PlayerID)
	assert.Equal(t, 0, s.ConsecutivePasses())
	assert.Equal(t, "p3", s.CurrentPlayerID())
	assert.Equal(t, "5c,10d", handOf(s, "p3"))
	assert.Equal(t, 2, s.DrawPileCount())

	require.NoError(t, s.Pass("p3"))
	assert.Nil(t, s.LastPlay())
	assert.Equal(t, "p1", s.CurrentPlayerID())
	assert.Equal(t, "3c,Qd", handOf(s, "p1"))
	assert.Equal(t, "5c,10d", handOf(s, "p3"))
}

func TestSession_RemovePlayerWhoMadeTheLastPlay(t *testing.T) {
	s := newTestSession(t, 3)
	require.NoError(t, s.Start())
	rig(s, "Qd,Kd", "3c,8d", "4c,9d", "5c,10d")

	require.NoError(t, s.PlayCards("p1", deck.CardsFromString("8d")))
	require.NoError(t, s.Pass("p2"))

	require.NoError(t, s.RemovePlayer("p1"))
	require.NotNil(t, s.LastPlay())
	assert.Equal(t, "p3", s.CurrentPlayerID())

	// both remaining seats have to pass before the table is cleared
	require.NoError(t, s.Pass("p3"))
	assert.Nil(t, s.LastPlay())
	assert.Equal(t, "p2", s.CurrentPlayerID())
	assert.Equal(t, "4c,9d,Qd", handOf(s, "p2"))
}

func TestSession_Invariants(t *testing.T) {
	for _, players := range []int{2, 3, 6} {
		t.Run(fmt.Sprintf("%d players", players), func(t *testing.T) {
			s := newTestSession(t, players)
			require.NoError(t, s.Start())

			for i := 0; i < 300 && s.Phase() == PhasePlaying; i++ {
				seat := s.currentPlayerIndex
				playerID := s.CurrentPlayerID()

				// beat a single with the lowest higher single when possible
				played := false
				if last := s.LastPlay(); last != nil && last.Shape == handshape.Single {
					for _, card := range s.idToPlayer[playerID].Hand() {
						if s.PlayCards(playerID, []*deck.Card{card}) == nil {
							played = true
							break
						}
					}
				}

				if !played {
					require.NoError(t, s.ForceTimeoutEffect(playerID))
				}

				assert.Equal(t, deck.Size, totalCards(s))
				if s.Phase() == PhasePlaying {
					assert.Equal(t, (seat+1)%players, s.currentPlayerIndex)
				}

				for _, p := range s.players {
					assert.True(t, p.CardCount() > 0 || s.Winner() == p.ID)
				}
			}
		})
	}
}

func TestSession_State(t *testing.T) {
	s := newTestSession(t, 2)
	require.NoError(t, s.Start())
	rig(s, "Kd", "3c,9d", "4c,5c")
	require.NoError(t, s.PlayCards("p1", deck.CardsFromString("3c")))

	res := s.State("p2")
	gs := res.GameState
	assert.Equal(t, "room-1", gs.RoomID)
	assert.Equal(t, "p2", gs.CurrentPlayerID)
	assert.Equal(t, 1, gs.CurrentTurn)
	assert.Equal(t, PhasePlaying, gs.Phase)
	assert.Equal(t, 1, gs.DrawPileCount)
	assert.Equal(t, 1, gs.DiscardPileCount)
	assert.Equal(t, "p1", gs.LastPlayerID)
	assert.Equal(t, 2, gs.MaxPlayers)
	assert.Equal(t, handshape.Single, gs.LastPlay.Shape)

	assert.Equal(t, "p1", gs.Players[0].ID)
	assert.Equal(t, 1, gs.Players[0].CardCount)
	assert.Nil(t, gs.Players[0].Hand)
	assert.Equal(t, "4c,5c", deck.CardsToString(gs.Players[1].Hand))
	assert.Equal(t, "4c,5c", deck.CardsToString(res.Hand))
	assert.True(t, res.IsTurn)
	assert.True(t, res.CanPass)

	res = s.State("p1")
	assert.False(t, res.IsTurn)
	assert.False(t, res.CanPass)

	res = s.State("spectator")
	assert.Nil(t, res.Hand)
	for _, p := range res.GameState.Players {
		assert.Nil(t, p.Hand)
	}

	// mutating the snapshot does not touch the session
	res = s.State("p2")
	res.Hand[0] = deck.CardFromString("bj")
	res.GameState.LastPlay.Cards[0] = deck.CardFromString("bj")
	assert.Equal(t, "4c,5c", handOf(s, "p2"))
	assert.Equal(t, "3c", deck.CardsToString(s.LastPlay().Cards))
}

func TestSession_StateSnapshot(t *testing.T) {
	s := newTestSession(t, 3)
	s.now = func() time.Time {
		return time.Date(2024, time.February, 10, 20, 0, 0, 0, time.UTC)
	}

	require.NoError(t, s.Start())
	rig(s, "Kd,sj", "3c,9d", "4c,5c", "10h,10s")
	snapshot.ValidateSnapshot(t, s.State("p2"))

	require.NoError(t, s.PlayCards("p1", deck.CardsFromString("9d")))
	snapshot.ValidateSnapshot(t, s.State("p2"))
}

func TestSession_GetPlayerState(t *testing.T) {
	s := newTestSession(t, 2)
	res, err := s.GetPlayerState("p1")
	assert.NoError(t, err)
	assert.Equal(t, "game", res.Key)
	assert.Equal(t, "gandengyan", res.Value)
	assert.IsType(t, &Response{}, res.Data)
}

func TestSession_Action(t *testing.T) {
	s := newTestSession(t, 2)

	_, _, err := s.Action("nobody", &playable.PayloadIn{Action: "start"})
	assert.Equal(t, ErrPlayerNotFound, err)

	res, update, err := s.Action("p1", &playable.PayloadIn{Action: "start", Context: "ctx"})
	assert.NoError(t, err)
	assert.True(t, update)
	assert.Equal(t, "ctx", res.Context)

	rig(s, "Kd", "3c,9d", "4c,5c")

	_, update, err = s.Action("p1", &playable.PayloadIn{Action: "pass"})
	assert.Equal(t, ErrMustLead, err)
	assert.False(t, update)

	_, update, err = s.Action("p1", &playable.PayloadIn{Action: "play", Cards: deck.CardsFromString("9d")})
	assert.NoError(t, err)
	assert.True(t, update)

	_, _, err = s.Action("p2", &playable.PayloadIn{Action: "timeout"})
	assert.NoError(t, err)
	assert.Nil(t, s.LastPlay())

	_, _, err = s.Action("p1", &playable.PayloadIn{Action: "rematch"})
	assert.Equal(t, ErrGameNotOver, err)

	_, _, err = s.Action("p1", &playable.PayloadIn{Action: "dance"})
	assert.EqualError(t, err, "unknown action: dance")
}

func TestSession_LogChan(t *testing.T) {
	s := newTestSession(t, 2)

	select {
	case msgs := <-s.LogChan():
		require.Len(t, msgs, 1)
		assert.Equal(t, []string{"p1"}, msgs[0].PlayerIDs)
		assert.Equal(t, "{} joined the room", msgs[0].Message)
	default:
		assert.Fail(t, "expected a log message")
	}
}
