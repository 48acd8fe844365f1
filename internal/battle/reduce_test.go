package battle

import (
	"testing"

	"github.com/playarena/backend/internal/cards"
)

// testState builds a deterministic mid-game state: host's turn, both heroes
// healthy, a few cards in each hand.
func testState(phase Phase) State {
	return State{
		Host: Side{
			Hero:            &Hero{CurrentHP: 30, MaxHP: 30},
			Deck:            []string{"militia", "stone_golem", "fire_drake"},
			Hand:            []string{"goblin_scout", "stone_golem", "iron_sword"},
			SacrificePoints: 2,
			SacrificeMax:    2,
		},
		Guest: Side{
			Hero:            &Hero{CurrentHP: 30, MaxHP: 30},
			Deck:            []string{"militia", "temple_guard"},
			Hand:            []string{"militia"},
			SacrificePoints: 1,
			SacrificeMax:    1,
		},
		Turn:  SideHost,
		Phase: phase,
	}
}

func TestInvalidActionsAreNoOps(t *testing.T) {
	cases := []struct {
		name   string
		state  State
		action Action
	}{
		{"sacrifice in play phase", testState(PhasePlay), Sacrifice{Side: SideHost, HandIndex: 0}},
		{"sacrifice out of turn", testState(PhaseSacrifice), Sacrifice{Side: SideGuest, HandIndex: 0}},
		{"sacrifice bad hand index", testState(PhaseSacrifice), Sacrifice{Side: SideHost, HandIndex: 9}},
		{"play minion in attack phase", testState(PhaseAttack), PlayMinion{Side: SideHost, HandIndex: 0}},
		{"play minion out of turn", testState(PhasePlay), PlayMinion{Side: SideGuest, HandIndex: 0}},
		{"play equip as minion", testState(PhasePlay), PlayMinion{Side: SideHost, HandIndex: 2}},
		{"end turn in play phase", testState(PhasePlay), EndTurn{Side: SideHost}},
		{"attack in play phase", testState(PhasePlay), Attack{AttackerSide: SideHost, AttackerIndex: 0, TargetSide: SideGuest, TargetIndex: -1}},
		{"attack own side", testState(PhaseAttack), Attack{AttackerSide: SideHost, AttackerIndex: 0, TargetSide: SideHost, TargetIndex: -1}},
		{"hero attack without weapon", testState(PhaseAttack), Attack{AttackerSide: SideHost, AttackerIndex: -1, TargetSide: SideGuest, TargetIndex: -1}},
	}

	for _, tc := range cases {
		got := Reduce(tc.state, tc.action)
		if !Equal(got, tc.state) {
			t.Errorf("%s: expected unchanged state", tc.name)
		}
	}
}

func TestPlayMinionInsufficientPoints(t *testing.T) {
	s := testState(PhasePlay)
	s.Host.SacrificePoints = 2
	s.Host.Hand = []string{"stone_golem"} // cost 3

	got := Reduce(s, PlayMinion{Side: SideHost, HandIndex: 0})
	if !Equal(got, s) {
		t.Fatal("expected rejection when cost exceeds sacrifice points")
	}
	if len(got.Host.Hand) != 1 {
		t.Fatalf("hand should be untouched, got %d cards", len(got.Host.Hand))
	}
}

func TestSacrificeRaisesCeilingAndReadiesFront(t *testing.T) {
	s := testState(PhaseSacrifice)
	s.Host.FieldFront = []Minion{{CardID: "militia", Attack: 2, CurrentHP: 1}}

	got := Reduce(s, Sacrifice{Side: SideHost, HandIndex: 0})
	if got.Host.SacrificePoints != 3 || got.Host.SacrificeMax != 3 {
		t.Errorf("expected points/max 3/3, got %d/%d", got.Host.SacrificePoints, got.Host.SacrificeMax)
	}
	if got.Phase != PhasePlay {
		t.Errorf("expected play phase, got %s", got.Phase)
	}
	if !got.Host.FieldFront[0].CanAttack {
		t.Error("front row should be readied by sacrifice")
	}
	if len(got.Host.Hand) != 2 {
		t.Errorf("expected 2 cards left in hand, got %d", len(got.Host.Hand))
	}
}

func TestPlayMinionDeductsAndSummonsAsleep(t *testing.T) {
	s := testState(PhasePlay)
	s.Host.SacrificePoints = 3

	got := Reduce(s, PlayMinion{Side: SideHost, HandIndex: 1}) // stone_golem, cost 3
	if got.Host.SacrificePoints != 0 {
		t.Errorf("expected 0 points after playing, got %d", got.Host.SacrificePoints)
	}
	if len(got.Host.FieldFront) != 1 {
		t.Fatalf("expected one minion on the field, got %d", len(got.Host.FieldFront))
	}
	m := got.Host.FieldFront[0]
	if m.CurrentHP != 5 || m.CanAttack {
		t.Errorf("summoned minion should be at full hp and asleep: %+v", m)
	}
}

func TestFrontRowCapacity(t *testing.T) {
	s := testState(PhasePlay)
	s.Host.SacrificePoints = 10
	for i := 0; i < FrontCap; i++ {
		s.Host.FieldFront = append(s.Host.FieldFront, Minion{CardID: "militia", Attack: 2, CurrentHP: 1})
	}

	got := Reduce(s, PlayMinion{Side: SideHost, HandIndex: 0})
	if !Equal(got, s) {
		t.Error("expected rejection at front-row capacity")
	}
}

func TestPlayBackEquipsWeapon(t *testing.T) {
	s := testState(PhasePlay)

	got := Reduce(s, PlayBack{Side: SideHost, HandIndex: 2}) // iron_sword, cost 2
	if got.Host.SacrificePoints != 0 {
		t.Errorf("expected 0 points after equipping, got %d", got.Host.SacrificePoints)
	}
	if len(got.Host.Hand) != 2 {
		t.Errorf("expected 2 cards left in hand, got %d", len(got.Host.Hand))
	}
	if len(got.Host.FieldBack) != 1 {
		t.Fatalf("expected one back-row card, got %d", len(got.Host.FieldBack))
	}
	b := got.Host.FieldBack[0]
	if b.CardID != "iron_sword" || b.Kind != cards.KindEquip || b.Attack != 2 || b.CurrentUseCount != 2 {
		t.Errorf("equipped weapon carries wrong stats: %+v", b)
	}

	// Minions never go to the back row
	if got2 := Reduce(s, PlayBack{Side: SideHost, HandIndex: 0}); !Equal(got2, s) {
		t.Error("minion played to the back row should be rejected")
	}

	// Cost check
	broke := testState(PhasePlay)
	broke.Host.SacrificePoints = 1
	if got3 := Reduce(broke, PlayBack{Side: SideHost, HandIndex: 2}); !Equal(got3, broke) {
		t.Error("expected rejection when cost exceeds sacrifice points")
	}
}

func TestBackRowCapacity(t *testing.T) {
	s := testState(PhasePlay)
	s.Host.SacrificePoints = 10
	for i := 0; i < BackCap; i++ {
		s.Host.FieldBack = append(s.Host.FieldBack, BackCard{CardID: "mana_spring", Kind: cards.KindEffect})
	}

	got := Reduce(s, PlayBack{Side: SideHost, HandIndex: 2})
	if !Equal(got, s) {
		t.Error("expected rejection at back-row capacity")
	}
}

func TestAttackKillsMinionAndFillsGraveyard(t *testing.T) {
	s := testState(PhaseAttack)
	s.Host.FieldFront = []Minion{{CardID: "fire_drake", Attack: 4, CurrentHP: 3, CanAttack: true}}
	s.Guest.FieldFront = []Minion{{CardID: "swamp_raider", Attack: 3, CurrentHP: 3}}

	got := Reduce(s, Attack{AttackerSide: SideHost, AttackerIndex: 0, TargetSide: SideGuest, TargetIndex: 0})
	if len(got.Guest.FieldFront) != 0 {
		t.Fatalf("dead minion should leave the field, got %d", len(got.Guest.FieldFront))
	}
	if got.Guest.Graveyard != 1 {
		t.Errorf("expected graveyard 1, got %d", got.Guest.Graveyard)
	}
	if got.Host.FieldFront[0].CanAttack {
		t.Error("attacker should be spent after attacking")
	}
	if got.LastAttack == nil || !got.LastAttack.TargetDied || got.LastAttack.Damage != 4 {
		t.Errorf("unexpected attack report: %+v", got.LastAttack)
	}
}

func TestHPNeverNegative(t *testing.T) {
	s := testState(PhaseAttack)
	s.Host.FieldFront = []Minion{{CardID: "bone_colossus", Attack: 6, CurrentHP: 6, CanAttack: true}}
	s.Guest.Hero.CurrentHP = 4

	got := Reduce(s, Attack{AttackerSide: SideHost, AttackerIndex: 0, TargetSide: SideGuest, TargetIndex: -1})
	if got.Guest.Hero.CurrentHP != 0 {
		t.Errorf("hero hp should floor at 0, got %d", got.Guest.Hero.CurrentHP)
	}
	if got.GameOver == nil || *got.GameOver != SideHost {
		t.Errorf("expected host to win, got %v", got.GameOver)
	}

	// Minion overkill floors as well and still counts one death
	s2 := testState(PhaseAttack)
	s2.Host.FieldFront = []Minion{{CardID: "arc_mage", Attack: 5, CurrentHP: 2, CanAttack: true}}
	s2.Guest.FieldFront = []Minion{{CardID: "militia", Attack: 2, CurrentHP: 1}}
	got2 := Reduce(s2, Attack{AttackerSide: SideHost, AttackerIndex: 0, TargetSide: SideGuest, TargetIndex: 0})
	if got2.Guest.Graveyard != 1 || len(got2.Guest.FieldFront) != 0 {
		t.Error("overkilled minion should die exactly once")
	}
}

func TestHeroShieldedByMinions(t *testing.T) {
	s := testState(PhaseAttack)
	s.Host.FieldFront = []Minion{{CardID: "fire_drake", Attack: 4, CurrentHP: 3, CanAttack: true}}
	s.Guest.FieldFront = []Minion{{CardID: "shield_bearer", Attack: 0, CurrentHP: 4}}

	got := Reduce(s, Attack{AttackerSide: SideHost, AttackerIndex: 0, TargetSide: SideGuest, TargetIndex: -1})
	if !Equal(got, s) {
		t.Error("hero attack should be rejected while minions guard")
	}

	// A direct attacker strikes past the guard
	s.Host.FieldFront[0] = Minion{CardID: "night_assassin", Attack: 4, CurrentHP: 1, CanAttack: true, DirectAttack: true}
	got = Reduce(s, Attack{AttackerSide: SideHost, AttackerIndex: 0, TargetSide: SideGuest, TargetIndex: -1})
	if got.Guest.Hero.CurrentHP != 26 {
		t.Errorf("direct attack should land on the hero, hp=%d", got.Guest.Hero.CurrentHP)
	}
}

func TestWeaponHeroAttackConsumesUse(t *testing.T) {
	s := testState(PhaseAttack)
	s.Host.FieldBack = []BackCard{{CardID: "iron_sword", Kind: "equip", Attack: 2, CurrentUseCount: 1}}

	got := Reduce(s, Attack{AttackerSide: SideHost, AttackerIndex: -1, TargetSide: SideGuest, TargetIndex: -1})
	if got.Guest.Hero.CurrentHP != 28 {
		t.Errorf("weapon swing should deal 2, hp=%d", got.Guest.Hero.CurrentHP)
	}
	if len(got.Host.FieldBack) != 0 {
		t.Error("weapon at zero uses should break")
	}
	if !got.Host.HeroAttacked {
		t.Error("hero should be spent for the turn")
	}

	// Second swing same turn is rejected
	again := Reduce(got, Attack{AttackerSide: SideHost, AttackerIndex: -1, TargetSide: SideGuest, TargetIndex: -1})
	if !Equal(again, got) {
		t.Error("hero may only attack once per turn")
	}
}

func TestEndTurnRefillsDrawsAndReadies(t *testing.T) {
	s := testState(PhaseAttack)
	s.Guest.SacrificePoints = 0
	s.Guest.SacrificeMax = 3
	s.Guest.FieldFront = []Minion{{CardID: "militia", Attack: 2, CurrentHP: 1}}
	s.Guest.HeroAttacked = true

	got := Reduce(s, EndTurn{Side: SideHost})
	if got.Turn != SideGuest || got.Phase != PhaseSacrifice {
		t.Fatalf("expected guest sacrifice phase, got %s/%s", got.Turn, got.Phase)
	}
	if got.Guest.SacrificePoints != 3 {
		t.Errorf("points should refill to the ceiling, got %d", got.Guest.SacrificePoints)
	}
	if got.Guest.Hero.Energy != 1 {
		t.Errorf("hero energy should tick up, got %d", got.Guest.Hero.Energy)
	}
	if len(got.Guest.Hand) != 2 || len(got.Guest.Deck) != 1 {
		t.Errorf("expected one card drawn, hand=%d deck=%d", len(got.Guest.Hand), len(got.Guest.Deck))
	}
	if !got.Guest.FieldFront[0].CanAttack {
		t.Error("new side's front row should be readied")
	}
	if got.Guest.HeroAttacked {
		t.Error("hero swing should reset on the new turn")
	}
}

func TestEndTurnSkipsDrawAtHandCap(t *testing.T) {
	s := testState(PhaseAttack)
	s.Guest.Hand = nil
	for i := 0; i < HandCap; i++ {
		s.Guest.Hand = append(s.Guest.Hand, "militia")
	}

	got := Reduce(s, EndTurn{Side: SideHost})
	if len(got.Guest.Hand) != HandCap {
		t.Errorf("hand at cap should not draw, got %d", len(got.Guest.Hand))
	}
	if len(got.Guest.Deck) != len(s.Guest.Deck) {
		t.Error("deck should be untouched when the draw is skipped")
	}
}

func TestTurnAlternationAndCeilingMonotonic(t *testing.T) {
	s := testState(PhaseSacrifice)
	prevMax := s.Host.SacrificeMax
	expect := SideHost

	for i := 0; i < 6; i++ {
		if s.Turn != expect {
			t.Fatalf("round %d: expected turn %s, got %s", i, expect, s.Turn)
		}
		active := s.Turn

		if len(s.side(active).Hand) > 0 {
			s = Reduce(s, Sacrifice{Side: active, HandIndex: 0})
		}
		s = Reduce(s, EndPlayPhase{Side: active})
		s = Reduce(s, EndTurn{Side: active})

		if active == SideHost {
			if s.Host.SacrificeMax < prevMax {
				t.Fatalf("sacrifice ceiling decreased: %d -> %d", prevMax, s.Host.SacrificeMax)
			}
			prevMax = s.Host.SacrificeMax
		}
		expect = expect.Opposite()
	}
}

func TestGameOverFreezesState(t *testing.T) {
	s := testState(PhaseAttack)
	winner := SideHost
	s.GameOver = &winner

	actions := []Action{
		Sacrifice{Side: SideHost, HandIndex: 0},
		PlayMinion{Side: SideHost, HandIndex: 0},
		EndPlayPhase{Side: SideHost},
		Attack{AttackerSide: SideHost, AttackerIndex: 0, TargetSide: SideGuest, TargetIndex: -1},
		EndTurn{Side: SideHost},
	}
	for _, a := range actions {
		if got := Reduce(s, a); !Equal(got, s) {
			t.Errorf("finished game accepted %T", a)
		}
	}
}

func TestNewStateRejectsMalformedDeck(t *testing.T) {
	good := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		good = append(good, "militia")
	}
	bad := append(append([]string(nil), good...), "no_such_card")

	if _, err := NewState(good, bad); err == nil {
		t.Fatal("expected error for deck with unknown card")
	}
	if _, err := NewState([]string{"militia"}, good); err == nil {
		t.Fatal("expected error for undersized deck")
	}

	st, err := NewState(good, good)
	if err != nil {
		t.Fatalf("valid decks should initialize: %v", err)
	}
	if len(st.Host.Hand) != OpeningHand || len(st.Guest.Hand) != OpeningHand {
		t.Errorf("opening hands wrong: %d/%d", len(st.Host.Hand), len(st.Guest.Hand))
	}
	if st.Turn != SideHost || st.Phase != PhaseSacrifice {
		t.Errorf("initial turn/phase wrong: %s/%s", st.Turn, st.Phase)
	}
}

func TestParseActionRoundTrip(t *testing.T) {
	raw := []byte(`{"type":"ATTACK","data":{"attacker_side":"host","attacker_index":-1,"target_side":"guest","target_index":-1}}`)
	a, err := ParseAction(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	atk, ok := a.(Attack)
	if !ok {
		t.Fatalf("expected Attack, got %T", a)
	}
	if atk.AttackerIndex != -1 || atk.TargetSide != SideGuest {
		t.Errorf("bad decode: %+v", atk)
	}

	if _, err := ParseAction([]byte(`{"type":"NOPE"}`)); err == nil {
		t.Error("unknown action type should fail to parse")
	}
}
