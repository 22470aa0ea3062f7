package domain

import "fmt"

// TargetKind discriminates the two message destinations.
type TargetKind uint8

const (
	TargetNone TargetKind = iota
	TargetDirect
	TargetGroup
)

func (k TargetKind) String() string {
	switch k {
	case TargetDirect:
		return "direct"
	case TargetGroup:
		return "group"
	default:
		return "none"
	}
}

// Target is where a message is delivered: a single receiver or a group.
// The zero value is invalid.
type Target struct {
	kind TargetKind
	id   int64
}

// Direct targets the user with the given id.
func Direct(receiverID int64) Target {
	return Target{kind: TargetDirect, id: receiverID}
}

// GroupTarget targets the group with the given id.
func GroupTarget(groupID int64) Target {
	return Target{kind: TargetGroup, id: groupID}
}

// ParseTarget builds a Target from the two optional wire fields. Exactly one
// must be set to a positive id.
func ParseTarget(receiverID, groupID *int64) (Target, error) {
	switch {
	case receiverID != nil && groupID != nil:
		return Target{}, ErrInvalidTarget
	case receiverID != nil:
		t := Direct(*receiverID)
		return t, t.Validate()
	case groupID != nil:
		t := GroupTarget(*groupID)
		return t, t.Validate()
	default:
		return Target{}, ErrInvalidTarget
	}
}

func (t Target) Kind() TargetKind { return t.kind }
func (t Target) ID() int64        { return t.id }
func (t Target) IsDirect() bool   { return t.kind == TargetDirect }
func (t Target) IsGroup() bool    { return t.kind == TargetGroup }

// Validate reports ErrInvalidTarget for the zero Target or a non-positive id.
func (t Target) Validate() error {
	if t.kind == TargetNone || t.id <= 0 {
		return ErrInvalidTarget
	}
	return nil
}

// ReceiverID returns the receiver column value, nil for group messages.
func (t Target) ReceiverID() *int64 {
	if t.kind != TargetDirect {
		return nil
	}
	id := t.id
	return &id
}

// GroupID returns the group column value, nil for direct messages.
func (t Target) GroupID() *int64 {
	if t.kind != TargetGroup {
		return nil
	}
	id := t.id
	return &id
}

func (t Target) String() string {
	return fmt.Sprintf("%s(%d)", t.kind, t.id)
}
