package transformer

import (
	"encoding/binary"
	"math"

	"moviesclean/pkg/records"

	"github.com/zeebo/xxh3"
)

// Fingerprint hashes every derived column of every row in order. Two tables
// with equal fingerprints carry the same derived values.
func Fingerprint(t *records.Table) uint64 {
	h := xxh3.New()
	for _, r := range t.Rows {
		hashRow(h, r)
	}
	return h.Sum64()
}

// RowFingerprint hashes the derived columns of a single row.
func RowFingerprint(r records.Record) uint64 {
	h := xxh3.New()
	hashRow(h, r)
	return h.Sum64()
}

func hashRow(h *xxh3.Hasher, r records.Record) {
	var buf [9]byte
	for _, col := range DerivedColumns {
		v := r.Get(col)
		buf[0] = byte(v.Kind())
		switch v.Kind() {
		case records.KindText:
			s, _ := v.AsText()
			writeString(h, buf[:], s)
		case records.KindInt:
			i, _ := v.AsInt()
			binary.LittleEndian.PutUint64(buf[1:], uint64(i))
			_, _ = h.Write(buf[:])
		case records.KindFloat:
			f, _ := v.AsFloat()
			binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(f))
			_, _ = h.Write(buf[:])
		case records.KindList:
			l, _ := v.AsList()
			binary.LittleEndian.PutUint64(buf[1:], uint64(len(l)))
			_, _ = h.Write(buf[:])
			for _, s := range l {
				writeString(h, buf[:], s)
			}
		default:
			_, _ = h.Write(buf[:1])
		}
	}
}

// writeString writes buf[0], a length prefix and s, so adjacent strings
// cannot collide.
func writeString(h *xxh3.Hasher, buf []byte, s string) {
	binary.LittleEndian.PutUint64(buf[1:], uint64(len(s)))
	_, _ = h.Write(buf)
	_, _ = h.WriteString(s)
}
