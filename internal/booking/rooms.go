package booking

import "math/rand"

// The building has three floors, each a fixed pool of rooms sized for
// one capacity tier.  Floor 1 seats one person, floor 2 seats two,
// floor 3 seats five.
var floorPools = map[int][]string{
	1: {"101", "102", "103", "104", "105", "106", "107", "108", "109", "110"},
	2: {"201", "202", "203", "204", "205"},
	3: {"301", "302", "303", "304", "305"},
}

var capacityToFloor = map[int]int{1: 1, 2: 2, 5: 3}
var floorToCapacity = map[int]int{1: 1, 2: 2, 3: 5}

// FloorForCapacity maps a requested head count to its floor.  Only the
// fixed tiers 1, 2 and 5 exist.
func FloorForCapacity(people int) (int, error) {
	floor, ok := capacityToFloor[people]
	if !ok {
		return 0, ErrBadCapacity
	}
	return floor, nil
}

// CapacityForFloor is the inverse mapping, used when pricing a
// reservation from its stored floor.
func CapacityForFloor(floor int) int {
	return floorToCapacity[floor]
}

// RoomPool returns a copy of the room labels on a floor.  Callers may
// reorder the copy freely.
func RoomPool(floor int) []string {
	pool := floorPools[floor]
	out := make([]string, len(pool))
	copy(out, pool)
	return out
}

// RandomRoom picks one room uniformly from the floor's pool.  Used for
// the provisional assignment at wizard entry; the pick is advisory and
// may be replaced at slot confirmation.
func RandomRoom(rng *rand.Rand, floor int) string {
	pool := floorPools[floor]
	return pool[rng.Intn(len(pool))]
}

// ShuffledPool returns the floor's rooms in random order.  Slot
// confirmation scans this order and takes the first conflict-free
// room, which spreads load across the pool without per-room locks.
func ShuffledPool(rng *rand.Rand, floor int) []string {
	pool := RoomPool(floor)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool
}

// FirstFreeRoom walks the pool in order and returns the first room the
// busy predicate clears.  ErrNoRoomAvailable when every room is taken.
func FirstFreeRoom(pool []string, busy func(room string) (bool, error)) (string, error) {
	for _, room := range pool {
		taken, err := busy(room)
		if err != nil {
			return "", err
		}
		if !taken {
			return room, nil
		}
	}
	return "", ErrNoRoomAvailable
}
