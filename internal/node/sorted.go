package node

import "sort"

// sortedInsertPos returns the index at which b should be inserted into the
// ascending, populated prefix keys[:n], and whether b is already present
// (index of the existing entry in that case). Shared by N4/N16 and their
// leaf counterparts, whose insert/remove only differ in fan-out.
func sortedInsertPos(keys []byte, n int, b byte) (pos int, found bool) {
	pos = sort.Search(n, func(i int) bool { return keys[i] >= b })
	found = pos < n && keys[pos] == b
	return pos, found
}

// shiftInsertByte opens a gap at pos in keys[:n] (n < len(keys)) and writes
// b into it by shifting the tail one slot to the right.
func shiftInsertByte(keys []byte, n, pos int, b byte) {
	copy(keys[pos+1:n+1], keys[pos:n])
	keys[pos] = b
}

// shiftRemoveByte closes the gap at pos in keys[:n].
func shiftRemoveByte(keys []byte, n, pos int) {
	copy(keys[pos:n-1], keys[pos+1:n])
}
