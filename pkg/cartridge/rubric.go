// SPDX-License-Identifier: MPL-2.0

package cartridge

// Rating is one level of a criterion's rating scale.
type Rating struct {
	Description     string  `json:"description"`
	Points          float64 `json:"points"`
	LongDescription string  `json:"long_description,omitempty"`
}

// Criterion is one row of a rubric with its ordered rating levels.
type Criterion struct {
	Description string   `json:"description"`
	Points      float64  `json:"points"`
	Ratings     []Rating `json:"ratings,omitempty"`
}

// Rubric owns an ordered sequence of criteria.
type Rubric struct {
	Identifier string
	Title      string
	Criteria   []Criterion
}

// PointsPossible sums the criterion point values.
func (r *Rubric) PointsPossible() float64 {
	var total float64
	for _, c := range r.Criteria {
		total += c.Points
	}
	return total
}
