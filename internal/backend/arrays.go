package backend

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// RealisedArray is one entry of the append-only arrays table: an array or
// string literal that has been assigned a data-segment ordinal. Global
// marks whether this ordinal is directly addressable data (a global array,
// or a Constant-tagged one) versus only a static source a local array's
// runtime copy is made from.
type RealisedArray struct {
	Ordinal     int
	ElementType string
	Values      []int64
	Global      bool
}

// hashArray fingerprints an array literal's element type and values so
// identical literals share one data-segment entry (spec.md §3's
// realised-constant dedup addition). Two literals only collapse into one
// entry when both their element type and their element values match
// exactly.
func hashArray(elementType string, values []int64) string {
	h := sha256.New()
	h.Write([]byte(elementType))
	h.Write([]byte{0})

	buf := make([]byte, 8)
	for _, v := range values {
		binary.LittleEndian.PutUint64(buf, uint64(v))
		h.Write(buf)
	}

	return hex.EncodeToString(h.Sum(nil))
}

// Realise registers an array/string literal's contents, reusing a prior
// ordinal when the content hash already exists rather than appending a
// duplicate. The reused entry's Global flag becomes true if either the
// existing or the new registration asked for global placement, since one
// realised entry can serve both a global reference and a local literal's
// static source.
func (st *SymbolTable) Realise(elementType string, values []int64, global bool) *RealisedArray {
	hash := hashArray(elementType, values)

	if ordinal, ok := st.arrayHashes[hash]; ok {
		existing := st.Arrays[ordinal]
		if global {
			existing.Global = true
		}
		return existing
	}

	ra := &RealisedArray{
		Ordinal:     len(st.Arrays),
		ElementType: elementType,
		Values:      values,
		Global:      global,
	}
	st.Arrays = append(st.Arrays, ra)
	st.arrayHashes[hash] = ra.Ordinal

	return ra
}
