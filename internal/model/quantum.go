package model

import "time"

// QuantumState is the entanglement state of a memory.
type QuantumState string

const (
	Classical     QuantumState = "classical"
	Superposition QuantumState = "superposition"
	Entangled     QuantumState = "entangled"
	Collapsed     QuantumState = "collapsed"
)

// QuantumStates lists every state in reporting order.
var QuantumStates = []QuantumState{Classical, Superposition, Entangled, Collapsed}

// QuantumSignature tracks the state and peers of a memory. EntangledWith
// holds peer ids by reference and may contain duplicates.
type QuantumSignature struct {
	State               QuantumState `json:"state"`
	EntangledWith       []string     `json:"entangled_with,omitempty"`
	CollapseCondition   string       `json:"collapse_condition,omitempty"`
	SuperpositionStates []string     `json:"superposition_states,omitempty"`
	MeasurementTime     *time.Time   `json:"measurement_time,omitempty"`
}

// EntangleWith adds a peer reference and moves to the Entangled state.
func (q *QuantumSignature) EntangleWith(peerID, condition string) {
	q.State = Entangled
	q.EntangledWith = append(q.EntangledWith, peerID)
	q.CollapseCondition = condition
}

// EnterSuperposition stores the candidate outcomes and moves to Superposition.
func (q *QuantumSignature) EnterSuperposition(states []string) {
	q.State = Superposition
	q.SuperpositionStates = append([]string(nil), states...)
}

// Collapse moves to Collapsed, stamps the measurement time and returns chosen.
func (q *QuantumSignature) Collapse(chosen string, at time.Time) string {
	q.State = Collapsed
	q.MeasurementTime = &at
	return chosen
}

func (q QuantumSignature) clone() QuantumSignature {
	if q.EntangledWith != nil {
		q.EntangledWith = append([]string(nil), q.EntangledWith...)
	}
	if q.SuperpositionStates != nil {
		q.SuperpositionStates = append([]string(nil), q.SuperpositionStates...)
	}
	if q.MeasurementTime != nil {
		t := *q.MeasurementTime
		q.MeasurementTime = &t
	}
	return q
}
