package citybuilder

import "github.com/amarogs/simtravel/internal/grid"

// Direction indexes the four cardinal exits of a tile cell, in the same N,S,W,E order
// the original tile tables use. DirNone marks a cell with no distinguished "straight
// ahead" lane, e.g. an intersection or a lane-changer.
type Direction int

const (
	DirN Direction = iota
	DirS
	DirW
	DirE
	DirNone
)

var opposite = [4]Direction{DirS, DirN, DirE, DirW}

// dx, dy give the coordinate delta of moving one cell in a cardinal direction, under
// the convention that X grows southward and Y grows eastward (matching the original
// tile authoring, where N decreases X and E increases Y).
var delta = [4][2]int{
	DirN: {-1, 0},
	DirS: {1, 0},
	DirW: {0, -1},
	DirE: {0, 1},
}

// Permission describes whether exiting a tile cell in a given direction is legal.
type Permission int

const (
	// WrongWay means the exit exists structurally but goes against the lane's flow.
	WrongWay Permission = iota
	// Allowed means the exit may be taken.
	Allowed
	// Blocked means the exit runs into a house (a dead end for traffic purposes).
	Blocked
)

// tileCell is one atomic cell within a 6x6 tile pattern.
type tileCell struct {
	perm [4]Permission // indexed by Direction N,S,W,E
	typ  grid.CellType
	lane Direction // the direction that "keeps the lane" when leaving this cell
}

func tc(n, s, w, e Permission, t grid.CellType, lane Direction) tileCell {
	return tileCell{perm: [4]Permission{n, s, w, e}, typ: t, lane: lane}
}

// tileSize is the fixed side length, in cells, of every atomic tile pattern below. The
// roundabout_side_length configuration parameter is validated against this constant:
// the builder only supports the canonical single-tile roundabout.
const tileSize = 6

// Atomic cell variants, ported from the tile permission tables of the original
// Python city builder (avenue/street/roundabout lane segments, house-adjacent
// variants, entries, exits, and intersections).
var (
	house = tc(Blocked, Blocked, Blocked, Blocked, grid.House, DirNone)

	avSInt   = tc(WrongWay, Allowed, Allowed, WrongWay, grid.Avenue, DirS)
	avSHouse = tc(WrongWay, Allowed, Blocked, Allowed, grid.Avenue, DirS)
	avSExit  = tc(WrongWay, Allowed, Allowed, Allowed, grid.Avenue, DirS)
	avSEntr  = tc(WrongWay, Allowed, WrongWay, Allowed, grid.Avenue, DirS)

	avNInt   = tc(Allowed, WrongWay, WrongWay, Allowed, grid.Avenue, DirN)
	avNHouse = tc(Allowed, WrongWay, Allowed, Blocked, grid.Avenue, DirN)
	avNExit  = tc(Allowed, WrongWay, Allowed, Allowed, grid.Avenue, DirN)
	avNEntr  = tc(Allowed, WrongWay, Allowed, WrongWay, grid.Avenue, DirN)

	avEInt   = tc(WrongWay, Allowed, WrongWay, Allowed, grid.Avenue, DirE)
	avEHouse = tc(Allowed, Blocked, WrongWay, Allowed, grid.Avenue, DirE)
	avEExit  = tc(Allowed, Allowed, WrongWay, Allowed, grid.Avenue, DirE)
	avEEntr  = tc(Allowed, WrongWay, WrongWay, Allowed, grid.Avenue, DirE)

	avWInt   = tc(Allowed, WrongWay, Allowed, WrongWay, grid.Avenue, DirW)
	avWHouse = tc(Blocked, Allowed, Allowed, WrongWay, grid.Avenue, DirW)
	avWExit  = tc(Allowed, Allowed, Allowed, WrongWay, grid.Avenue, DirW)
	avWEntr  = tc(WrongWay, Allowed, Allowed, WrongWay, grid.Avenue, DirW)

	streetE = tc(Blocked, Blocked, WrongWay, Allowed, grid.Street, DirE)
	streetW = tc(Blocked, Blocked, Allowed, WrongWay, grid.Street, DirW)
	streetN = tc(Allowed, WrongWay, Blocked, Blocked, grid.Street, DirN)
	streetS = tc(WrongWay, Allowed, Blocked, Blocked, grid.Street, DirS)

	rbE = tc(Blocked, Blocked, WrongWay, Allowed, grid.Roundabout, DirE)
	rbW = tc(Blocked, Blocked, Allowed, WrongWay, grid.Roundabout, DirW)
	rbN = tc(Allowed, WrongWay, Blocked, Blocked, grid.Roundabout, DirN)
	rbS = tc(WrongWay, Allowed, Blocked, Blocked, grid.Roundabout, DirS)

	rbInterSE = tc(WrongWay, Allowed, WrongWay, Allowed, grid.Roundabout, DirNone)
	rbInterSW = tc(WrongWay, Allowed, Allowed, WrongWay, grid.Roundabout, DirNone)
	rbInterNE = tc(Allowed, WrongWay, WrongWay, Allowed, grid.Roundabout, DirNone)
	rbInterNW = tc(Allowed, WrongWay, Allowed, WrongWay, grid.Roundabout, DirNone)

	interSE = tc(WrongWay, Allowed, WrongWay, Allowed, grid.Street, DirNone)
	interSW = tc(WrongWay, Allowed, Allowed, WrongWay, grid.Street, DirNone)
	interNE = tc(Allowed, WrongWay, WrongWay, Allowed, grid.Street, DirNone)
	interNW = tc(Allowed, WrongWay, Allowed, WrongWay, grid.Street, DirNone)
)

// tileAvNS is a north-south avenue block flanked by cross streets.
var tileAvNS = [tileSize][tileSize]tileCell{
	{house, avSHouse, avSInt, avNInt, avNHouse, house},
	{streetE, avSEntr, avSInt, avNInt, avNExit, streetE},
	{house, avSHouse, avSInt, avNInt, avNHouse, house},
	{house, avSHouse, avSInt, avNInt, avNHouse, house},
	{streetW, avSExit, avSInt, avNInt, avNEntr, streetW},
	{house, avSHouse, avSInt, avNInt, avNHouse, house},
}

// tileAvEW is an east-west avenue block flanked by cross streets.
var tileAvEW = [tileSize][tileSize]tileCell{
	{house, streetS, house, house, streetN, house},
	{avWHouse, avWEntr, avWHouse, avWHouse, avWExit, avWHouse},
	{avWInt, avWInt, avWInt, avWInt, avWInt, avWInt},
	{avEInt, avEInt, avEInt, avEInt, avEInt, avEInt},
	{avEHouse, avEExit, avEHouse, avEHouse, avEEntr, avEHouse},
	{house, streetS, house, house, streetN, house},
}

// tileNG is a neutral residential block of last-mile streets.
var tileNG = [tileSize][tileSize]tileCell{
	{house, streetS, house, house, streetN, house},
	{streetE, interSE, streetE, streetE, interNE, streetE},
	{house, streetS, house, house, streetN, house},
	{house, streetS, house, house, streetN, house},
	{streetW, interSW, streetW, streetW, interNW, streetW},
	{house, streetS, house, house, streetN, house},
}

// tileRB is a roundabout with a non-drivable island at its center.
var tileRB = [tileSize][tileSize]tileCell{
	{house, avSHouse, avSInt, avNInt, avNHouse, house},
	{avWHouse, rbInterSW, rbW, rbInterNW, rbInterNW, avWHouse},
	{avWInt, rbInterSW, house, house, rbN, avWInt},
	{avEInt, rbS, house, house, rbInterNE, avEInt},
	{avEHouse, rbInterSE, rbInterSE, rbE, rbInterNE, avEHouse},
	{house, avSHouse, avSInt, avNInt, avNHouse, house},
}
