// Package journal collects combat records on the region goroutine and hands
// them to a background writer in batches.
package journal

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/l1jgo/regioncore/internal/core/ecs"
	"github.com/l1jgo/regioncore/internal/core/timer"
	"github.com/oklog/ulid/v2"
	"github.com/vmihailenco/msgpack/v5"
)

type Kind string

const (
	KindAttack    Kind = "attack"
	KindInterrupt Kind = "interrupt"
	KindCast      Kind = "cast"
	KindDeath     Kind = "death"
	KindViolation Kind = "violation"
)

// Entry is one journal row. Payload is msgpack-encoded.
type Entry struct {
	ID         ulid.ULID
	Region     uuid.UUID
	RegionTime timer.Time
	Kind       Kind
	Entity     ecs.EntityID
	Target     ecs.EntityID
	Payload    []byte
	Recorded   time.Time
}

type AttackPayload struct {
	Result   string `msgpack:"result"`
	Mode     string `msgpack:"mode"`
	WeaponID int32  `msgpack:"weapon"`
	Damage   int    `msgpack:"damage"`
	Critical int    `msgpack:"critical,omitempty"`
}

type InterruptPayload struct {
	Was     string       `msgpack:"was"`
	By      ecs.EntityID `msgpack:"by,omitempty"`
	SpellID int32        `msgpack:"spell,omitempty"`
}

type CastPayload struct {
	SpellID int32 `msgpack:"spell"`
}

type DeathPayload struct {
	Killer ecs.EntityID `msgpack:"killer,omitempty"`
}

type ViolationPayload struct {
	Purpose string `msgpack:"purpose"`
	Error   string `msgpack:"error"`
}

// New builds an entry with a fresh ULID and the encoded payload.
func New(region uuid.UUID, at timer.Time, kind Kind, entity, target ecs.EntityID, payload any) (Entry, error) {
	raw, err := msgpack.Marshal(payload)
	if err != nil {
		return Entry{}, fmt.Errorf("journal %s payload: %w", kind, err)
	}
	return Entry{
		ID:         ulid.Make(),
		Region:     region,
		RegionTime: at,
		Kind:       kind,
		Entity:     entity,
		Target:     target,
		Payload:    raw,
		Recorded:   time.Now(),
	}, nil
}

// Decode unpacks the payload into v.
func (e Entry) Decode(v any) error {
	return msgpack.Unmarshal(e.Payload, v)
}
