// Package station models charging stations: a fixed number of chargers, a FIFO queue of
// vehicles waiting for one to free up, and the city-wide layout policies that decide
// where stations sit and which cells each one serves.
package station

import (
	"container/list"

	"github.com/amarogs/simtravel/internal/grid"
)

// Station is one charging point cluster. Vehicle identities are passed through as plain
// ints rather than a vehicle package type, so this package never imports vehicle and a
// cycle never arises; the engine is responsible for mapping ints back to its own
// vehicles.
type Station struct {
	ID       int
	Cell     grid.CellID
	Capacity int

	available int
	queue     *list.List
}

// New creates a station at cell with capacity chargers, all initially free.
func New(id int, cell grid.CellID, capacity int) *Station {
	return &Station{
		ID:        id,
		Cell:      cell,
		Capacity:  capacity,
		available: capacity,
		queue:     list.New(),
	}
}

// ReserveCharger reserves one charger if available, reporting whether it succeeded.
func (s *Station) ReserveCharger() bool {
	if s.available <= 0 {
		return false
	}
	s.available--
	return true
}

// ReleaseCharger frees a charger previously reserved with ReserveCharger.
func (s *Station) ReleaseCharger() {
	if s.available < s.Capacity {
		s.available++
	}
}

// Available returns the number of free chargers.
func (s *Station) Available() int {
	return s.available
}

// Occupied returns the number of chargers currently in use.
func (s *Station) Occupied() int {
	return s.Capacity - s.available
}

// Enqueue appends a vehicle to the back of the waiting queue.
func (s *Station) Enqueue(vehicleID int) {
	s.queue.PushBack(vehicleID)
}

// DequeueFront removes and returns the vehicle at the front of the queue, if any.
func (s *Station) DequeueFront() (int, bool) {
	front := s.queue.Front()
	if front == nil {
		return 0, false
	}
	s.queue.Remove(front)
	return front.Value.(int), true
}

// QueueIDs returns a snapshot of every vehicle currently waiting, front first, without
// removing them. Used to tick per-vehicle waiting counters without disturbing order.
func (s *Station) QueueIDs() []int {
	ids := make([]int, 0, s.queue.Len())
	for e := s.queue.Front(); e != nil; e = e.Next() {
		ids = append(ids, e.Value.(int))
	}
	return ids
}

// QueueLen returns the number of vehicles currently waiting for a charger.
func (s *Station) QueueLen() int {
	return s.queue.Len()
}

// Restart returns the station to its initial, all-chargers-free, empty-queue state. A
// repetition's stations are restarted rather than rebuilt, since their cell placement is
// geometry, not simulation state.
func (s *Station) Restart() {
	s.available = s.Capacity
	s.queue.Init()
}
