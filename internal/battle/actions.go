package battle

import (
	"encoding/json"
	"fmt"
)

// Action is the closed set of moves the reducer accepts. The sealed marker
// keeps the switch in Reduce exhaustive.
type Action interface {
	isAction()
}

// Sacrifice trades one hand card for a permanent point of the resource
// ceiling and readies the front row.
type Sacrifice struct {
	Side      SideID `json:"side"`
	HandIndex int    `json:"hand_index"`
}

// PlayMinion puts a hand card onto the front row
type PlayMinion struct {
	Side      SideID `json:"side"`
	HandIndex int    `json:"hand_index"`
}

// PlayBack puts an equipment, effect or trap onto the back row
type PlayBack struct {
	Side      SideID `json:"side"`
	HandIndex int    `json:"hand_index"`
}

// EndPlayPhase moves from play to attack
type EndPlayPhase struct {
	Side SideID `json:"side"`
}

// Attack strikes a front-row minion or, when the row is empty or the
// attacker can strike past it, the hero. AttackerIndex -1 means the hero
// swings an equipped weapon.
type Attack struct {
	AttackerSide  SideID `json:"attacker_side"`
	AttackerIndex int    `json:"attacker_index"`
	TargetSide    SideID `json:"target_side"`
	TargetIndex   int    `json:"target_index"` // -1 targets the hero
}

// EndTurn hands the turn to the other side
type EndTurn struct {
	Side SideID `json:"side"`
}

func (Sacrifice) isAction()    {}
func (PlayMinion) isAction()   {}
func (PlayBack) isAction()     {}
func (EndPlayPhase) isAction() {}
func (Attack) isAction()       {}
func (EndTurn) isAction()      {}

// envelope is the wire form of an action: a type tag plus the fields of the
// matching variant.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Action type tags as they appear on the wire
const (
	TypeSacrifice    = "SACRIFICE"
	TypePlayMinion   = "PLAY_MINION"
	TypePlayBack     = "PLAY_BACK"
	TypeEndPlayPhase = "END_PLAY_PHASE"
	TypeAttack       = "ATTACK"
	TypeEndTurn      = "END_TURN"
)

// ParseAction decodes a tagged JSON action into its concrete variant
func ParseAction(raw []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed action: %w", err)
	}

	decode := func(v Action) (Action, error) {
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, v); err != nil {
				return nil, fmt.Errorf("malformed %s action: %w", env.Type, err)
			}
		}
		return v, nil
	}

	switch env.Type {
	case TypeSacrifice:
		a, err := decode(&Sacrifice{})
		if err != nil {
			return nil, err
		}
		return *a.(*Sacrifice), nil
	case TypePlayMinion:
		a, err := decode(&PlayMinion{})
		if err != nil {
			return nil, err
		}
		return *a.(*PlayMinion), nil
	case TypePlayBack:
		a, err := decode(&PlayBack{})
		if err != nil {
			return nil, err
		}
		return *a.(*PlayBack), nil
	case TypeEndPlayPhase:
		a, err := decode(&EndPlayPhase{})
		if err != nil {
			return nil, err
		}
		return *a.(*EndPlayPhase), nil
	case TypeAttack:
		a, err := decode(&Attack{})
		if err != nil {
			return nil, err
		}
		return *a.(*Attack), nil
	case TypeEndTurn:
		a, err := decode(&EndTurn{})
		if err != nil {
			return nil, err
		}
		return *a.(*EndTurn), nil
	default:
		return nil, fmt.Errorf("unknown action type %q", env.Type)
	}
}

// ActorSide reports which side an action claims to act for
func ActorSide(a Action) SideID {
	switch v := a.(type) {
	case Sacrifice:
		return v.Side
	case PlayMinion:
		return v.Side
	case PlayBack:
		return v.Side
	case EndPlayPhase:
		return v.Side
	case Attack:
		return v.AttackerSide
	case EndTurn:
		return v.Side
	}
	return ""
}
