package features

import "github.com/poiesic/servmatch/core"

// EncodeQuery encodes q into the feature space of enc, laid out over
// columns. The encoders are applied, never refitted. Unknown terms, skills,
// days and locations are dropped, so the result is the zero vector when
// nothing in q is known. A nil query or encoder set also yields zeros.
func EncodeQuery(q *core.Query, enc *EncoderSet, columns []Column) []float64 {
	if q == nil || enc == nil || q.IsEmpty() {
		return make([]float64, len(columns))
	}
	return Reindex(enc.encode(q.ServiceType, q.Skills, q.Days, q.Location), columns)
}
