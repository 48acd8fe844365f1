package battle

import (
	"reflect"

	"github.com/playarena/backend/internal/cards"
)

// Reduce advances the match state by one action. Invalid actions (wrong
// phase, wrong turn, insufficient resources, capacity exceeded) return the
// input state unchanged; the reducer never reports an error, so the layers
// above it carry no error plumbing for rejected moves.
func Reduce(s State, a Action) State {
	if s.GameOver != nil {
		return s
	}

	switch v := a.(type) {
	case Sacrifice:
		return reduceSacrifice(s, v)
	case PlayMinion:
		return reducePlayMinion(s, v)
	case PlayBack:
		return reducePlayBack(s, v)
	case EndPlayPhase:
		return reduceEndPlayPhase(s, v)
	case Attack:
		return reduceAttack(s, v)
	case EndTurn:
		return reduceEndTurn(s, v)
	}
	return s
}

// Equal reports whether two states are deep-equal. The dispatcher uses it
// to skip persisting no-op reductions.
func Equal(a, b State) bool {
	return reflect.DeepEqual(a, b)
}

func reduceSacrifice(s State, a Sacrifice) State {
	if s.Phase != PhaseSacrifice || a.Side != s.Turn {
		return s
	}
	side := s.side(a.Side)
	if a.HandIndex < 0 || a.HandIndex >= len(side.Hand) {
		return s
	}

	next := s.clone()
	ns := next.side(a.Side)
	ns.Hand = append(ns.Hand[:a.HandIndex], ns.Hand[a.HandIndex+1:]...)
	ns.SacrificePoints++
	// The ceiling only ever grows: the mana curve escalates across turns.
	ns.SacrificeMax++
	for i := range ns.FieldFront {
		ns.FieldFront[i].CanAttack = true
	}
	next.Phase = PhasePlay
	next.LastAttack = nil
	return next
}

func reducePlayMinion(s State, a PlayMinion) State {
	if s.Phase != PhasePlay || a.Side != s.Turn {
		return s
	}
	side := s.side(a.Side)
	if a.HandIndex < 0 || a.HandIndex >= len(side.Hand) {
		return s
	}
	def, ok := cards.Lookup(side.Hand[a.HandIndex])
	if !ok || def.Kind != cards.KindMinion {
		return s
	}
	if side.SacrificePoints < def.Cost || len(side.FieldFront) >= FrontCap {
		return s
	}

	next := s.clone()
	ns := next.side(a.Side)
	ns.Hand = append(ns.Hand[:a.HandIndex], ns.Hand[a.HandIndex+1:]...)
	ns.SacrificePoints -= def.Cost
	ns.FieldFront = append(ns.FieldFront, Minion{
		CardID:       def.ID,
		Attack:       def.Attack,
		CurrentHP:    def.HP,
		CanAttack:    false,
		DirectAttack: def.DirectAttack,
	})
	next.LastAttack = nil
	return next
}

func reducePlayBack(s State, a PlayBack) State {
	if s.Phase != PhasePlay || a.Side != s.Turn {
		return s
	}
	side := s.side(a.Side)
	if a.HandIndex < 0 || a.HandIndex >= len(side.Hand) {
		return s
	}
	def, ok := cards.Lookup(side.Hand[a.HandIndex])
	if !ok || def.Kind == cards.KindMinion {
		return s
	}
	if side.SacrificePoints < def.Cost || len(side.FieldBack) >= BackCap {
		return s
	}

	next := s.clone()
	ns := next.side(a.Side)
	ns.Hand = append(ns.Hand[:a.HandIndex], ns.Hand[a.HandIndex+1:]...)
	ns.SacrificePoints -= def.Cost
	ns.FieldBack = append(ns.FieldBack, BackCard{
		CardID:          def.ID,
		Kind:            def.Kind,
		Attack:          def.Attack,
		CurrentUseCount: def.UseCount,
	})
	next.LastAttack = nil
	return next
}

func reduceEndPlayPhase(s State, a EndPlayPhase) State {
	// Also accepted in the sacrifice phase so a player with an empty hand
	// is never stranded there.
	if a.Side != s.Turn || (s.Phase != PhasePlay && s.Phase != PhaseSacrifice) {
		return s
	}
	next := s.clone()
	next.Phase = PhaseAttack
	next.LastAttack = nil
	return next
}

func reduceAttack(s State, a Attack) State {
	if s.Phase != PhaseAttack || a.AttackerSide != s.Turn || a.TargetSide == a.AttackerSide {
		return s
	}

	atkSide := s.side(a.AttackerSide)
	defSide := s.side(a.TargetSide)

	var damage int
	var direct bool

	if a.AttackerIndex == -1 {
		// Hero swing with an equipped weapon
		if atkSide.HeroAttacked {
			return s
		}
		wi := weaponIndex(atkSide)
		if wi < 0 {
			return s
		}
		damage = atkSide.FieldBack[wi].Attack
		def, _ := cards.Lookup(atkSide.FieldBack[wi].CardID)
		direct = def.DirectAttack
	} else {
		if a.AttackerIndex < 0 || a.AttackerIndex >= len(atkSide.FieldFront) {
			return s
		}
		m := atkSide.FieldFront[a.AttackerIndex]
		if !m.CanAttack {
			return s
		}
		damage = m.Attack
		direct = m.DirectAttack
	}

	heroTarget := a.TargetIndex == -1
	if heroTarget {
		if defSide.Hero == nil {
			return s
		}
		// Minions shield the hero unless the attacker strikes past them
		if len(defSide.FieldFront) > 0 && !direct {
			return s
		}
	} else if a.TargetIndex < 0 || a.TargetIndex >= len(defSide.FieldFront) {
		return s
	}

	next := s.clone()
	nAtk := next.side(a.AttackerSide)
	nDef := next.side(a.TargetSide)

	report := &AttackReport{
		Attacker:      a.AttackerSide,
		AttackerIndex: a.AttackerIndex,
		TargetSide:    a.TargetSide,
		TargetIndex:   a.TargetIndex,
		Damage:        damage,
	}

	if a.AttackerIndex == -1 {
		wi := weaponIndex(nAtk)
		nAtk.FieldBack[wi].CurrentUseCount--
		if nAtk.FieldBack[wi].CurrentUseCount <= 0 {
			nAtk.FieldBack = append(nAtk.FieldBack[:wi], nAtk.FieldBack[wi+1:]...)
		}
		nAtk.HeroAttacked = true
	} else {
		nAtk.FieldFront[a.AttackerIndex].CanAttack = false
	}

	if heroTarget {
		hp := nDef.Hero.CurrentHP - damage
		if hp < 0 {
			hp = 0
		}
		nDef.Hero.CurrentHP = hp
		if hp == 0 {
			winner := a.AttackerSide
			next.GameOver = &winner
			report.TargetDied = true
		}
	} else {
		hp := nDef.FieldFront[a.TargetIndex].CurrentHP - damage
		if hp < 0 {
			hp = 0
		}
		nDef.FieldFront[a.TargetIndex].CurrentHP = hp
		if hp == 0 {
			nDef.FieldFront = append(nDef.FieldFront[:a.TargetIndex], nDef.FieldFront[a.TargetIndex+1:]...)
			nDef.Graveyard++
			report.TargetDied = true
		}
	}

	next.LastAttack = report
	return next
}

func reduceEndTurn(s State, a EndTurn) State {
	if s.Phase != PhaseAttack || a.Side != s.Turn {
		return s
	}

	next := s.clone()
	next.Turn = s.Turn.Opposite()
	next.Phase = PhaseSacrifice
	next.LastAttack = nil

	ns := next.side(next.Turn)
	// Spent points do not carry over; the ceiling does.
	ns.SacrificePoints = ns.SacrificeMax
	if ns.Hero != nil {
		ns.Hero.Energy++
	}
	if len(ns.Deck) > 0 && len(ns.Hand) < HandCap {
		drawn, rest := cards.Draw(ns.Deck, 1)
		ns.Hand = append(ns.Hand, drawn...)
		ns.Deck = rest
	}
	for i := range ns.FieldFront {
		ns.FieldFront[i].CanAttack = true
	}
	ns.HeroAttacked = false
	return next
}

// weaponIndex finds the first usable equipment on the back row, -1 if none
func weaponIndex(s *Side) int {
	for i, b := range s.FieldBack {
		if b.Kind == cards.KindEquip && b.CurrentUseCount > 0 {
			return i
		}
	}
	return -1
}
