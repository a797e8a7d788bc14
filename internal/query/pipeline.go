// Package query composes read views as a fixed list of typed stages and
// compiles them to PostgreSQL.
//
// A Pipeline is Match -> Lookup -> Count/Exists -> Sort -> Paginate. Stages
// may be omitted but never reordered. Paginated pipelines compile to two
// statements: the page itself and an independent COUNT over the same filtered
// set, so totals never depend on the page slice.
package query

// Stage is one step of a Pipeline.
type Stage interface {
	rank() int
}

const (
	rankMatch = iota
	rankLookup
	rankDerive
	rankSort
	rankPaginate
)

// Pipeline describes a view over a base table.
type Pipeline struct {
	From string
	As   string
	// Key is the base column used as the implicit tie-break. Defaults to "id".
	Key string
	// Fields are base columns, either "col" or "col AS name".
	Fields []string
	Stages []Stage
}

// Match filters the base set. Conditions are ANDed.
type Match struct {
	Conds []Cond
}

func (Match) rank() int { return rankMatch }

// Cond is a single filter predicate. Field names are alias-qualified, e.g. "v.owner_id".
type Cond interface {
	render(b *builder) (string, error)
	fields() []string
}

// Eq is field = value.
type Eq struct {
	Field string
	Value any
}

// IsNotNull is field IS NOT NULL.
type IsNotNull struct {
	Field string
}

// ContainsFold matches a case-insensitive substring against any of Fields.
// LIKE metacharacters in Term are matched literally.
type ContainsFold struct {
	Fields []string
	Term   string
}

// EqFold is case-insensitive equality.
type EqFold struct {
	Field string
	Value string
}

// Or matches when any of Conds holds.
type Or struct {
	Conds []Cond
}

// Lookup attaches a referenced row. Fields are selected as "<As>.<col>" so
// they scan into a nested struct tagged db:"<As>", unless Flatten is set.
// A required lookup is an inner join and assumes exactly one match; an
// Optional lookup is a left join for zero-or-one references. LocalField may
// name a column of an earlier lookup, which chains them.
type Lookup struct {
	Table        string
	As           string
	LocalField   string
	ForeignField string
	Fields       []string
	Optional     bool
	Flatten      bool
}

func (Lookup) rank() int { return rankLookup }

// Count derives the number of rows in Table whose ForeignField equals LocalField.
type Count struct {
	As           string
	Table        string
	ForeignField string
	LocalField   string
}

func (Count) rank() int { return rankDerive }

// Exists derives whether the viewer holds an edge in Table pointing at LocalField.
// With a nil Viewer it compiles to FALSE.
type Exists struct {
	As           string
	Table        string
	ForeignField string
	LocalField   string
	ViewerField  string
	Viewer       *int64
}

func (Exists) rank() int { return rankDerive }

// Sort orders by an allow-listed column. Build it with ParseSort.
type Sort struct {
	Column string
	Desc   bool
}

func (Sort) rank() int { return rankSort }

// Paginate slices the sorted set. Build it with ParsePage.
type Paginate struct {
	Page  int
	Limit int
}

func (Paginate) rank() int { return rankPaginate }

func (p Paginate) offset() int { return (p.Page - 1) * p.Limit }

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}
