package query

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*(\.[a-z_][a-z0-9_]*)?$`)

var (
	ErrStageOrder     = errors.New("query: stages out of order")
	ErrDuplicateStage = errors.New("query: duplicate sort or paginate stage")
	ErrNotPaginated   = errors.New("query: pipeline has no paginate stage")
)

// Statement is a compiled pipeline.
type Statement struct {
	SQL  string
	Args []any
	// CountSQL is set only for paginated pipelines.
	CountSQL  string
	CountArgs []any
	Page      *Paginate
}

type builder struct {
	args []any
}

func (b *builder) bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func checkIdent(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("query: invalid identifier %q", name)
	}
	return nil
}

// splitField parses "col" or "col AS name".
func splitField(f string) (col, name string, err error) {
	col, name, found := strings.Cut(f, " AS ")
	col = strings.TrimSpace(col)
	if !found {
		name = col
		if i := strings.LastIndexByte(col, '.'); i >= 0 {
			name = col[i+1:]
		}
	}
	name = strings.TrimSpace(name)
	if err := checkIdent(col); err != nil {
		return "", "", err
	}
	if err := checkIdent(name); err != nil {
		return "", "", err
	}
	return col, name, nil
}

func (e Eq) render(b *builder) (string, error) {
	if err := checkIdent(e.Field); err != nil {
		return "", err
	}
	return e.Field + " = " + b.bind(e.Value), nil
}

func (c IsNotNull) render(_ *builder) (string, error) {
	if err := checkIdent(c.Field); err != nil {
		return "", err
	}
	return c.Field + " IS NOT NULL", nil
}

func (c ContainsFold) render(b *builder) (string, error) {
	if len(c.Fields) == 0 {
		return "", errors.New("query: ContainsFold needs at least one field")
	}
	ph := b.bind("%" + EscapeLike(c.Term) + "%")
	parts := make([]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		if err := checkIdent(f); err != nil {
			return "", err
		}
		parts = append(parts, f+" ILIKE "+ph)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, " OR ") + ")", nil
}

func (c EqFold) render(b *builder) (string, error) {
	if err := checkIdent(c.Field); err != nil {
		return "", err
	}
	return "LOWER(" + c.Field + ") = LOWER(" + b.bind(c.Value) + ")", nil
}

func (c Or) render(b *builder) (string, error) {
	if len(c.Conds) == 0 {
		return "", errors.New("query: Or needs at least one condition")
	}
	parts := make([]string, 0, len(c.Conds))
	for _, sub := range c.Conds {
		s, err := sub.render(b)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, " OR ") + ")", nil
}

func (e Eq) fields() []string           { return []string{e.Field} }
func (c IsNotNull) fields() []string    { return []string{c.Field} }
func (c ContainsFold) fields() []string { return c.Fields }
func (c EqFold) fields() []string       { return []string{c.Field} }

func (c Or) fields() []string {
	var out []string
	for _, sub := range c.Conds {
		out = append(out, sub.fields()...)
	}
	return out
}

// EscapeLike escapes LIKE metacharacters using the default backslash escape.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

type parts struct {
	matches  []Match
	lookups  []Lookup
	derived  []Stage
	sort     *Sort
	paginate *Paginate
}

func split(p Pipeline) (*parts, error) {
	out := &parts{}
	last := -1
	for _, st := range p.Stages {
		r := st.rank()
		if r < last {
			return nil, fmt.Errorf("%w: %T after rank %d", ErrStageOrder, st, last)
		}
		last = r
		switch s := st.(type) {
		case Match:
			out.matches = append(out.matches, s)
		case Lookup:
			out.lookups = append(out.lookups, s)
		case Count, Exists:
			out.derived = append(out.derived, s)
		case Sort:
			if out.sort != nil {
				return nil, ErrDuplicateStage
			}
			out.sort = &s
		case Paginate:
			if out.paginate != nil {
				return nil, ErrDuplicateStage
			}
			out.paginate = &s
		default:
			return nil, fmt.Errorf("query: unknown stage %T", st)
		}
	}
	return out, nil
}

// Compile turns a pipeline into SQL.
func Compile(p Pipeline) (*Statement, error) {
	if err := checkIdent(p.From); err != nil {
		return nil, err
	}
	if err := checkIdent(p.As); err != nil {
		return nil, err
	}
	key := p.Key
	if key == "" {
		key = "id"
	}
	if err := checkIdent(key); err != nil {
		return nil, err
	}
	key = p.As + "." + key

	ps, err := split(p)
	if err != nil {
		return nil, err
	}

	b := &builder{}
	var sb strings.Builder

	cols, err := selectList(b, p, ps)
	if err != nil {
		return nil, err
	}
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(cols, ", "))

	from, err := fromClause(p, ps.lookups)
	if err != nil {
		return nil, err
	}
	sb.WriteString(from)

	where, err := whereClause(b, ps)
	if err != nil {
		return nil, err
	}
	sb.WriteString(where)

	sb.WriteString(" ORDER BY ")
	if ps.sort != nil {
		if err := checkIdent(ps.sort.Column); err != nil {
			return nil, err
		}
		dir := "ASC"
		if ps.sort.Desc {
			dir = "DESC"
		}
		sb.WriteString(ps.sort.Column + " " + dir)
		if ps.sort.Column != key {
			sb.WriteString(", " + key + " ASC")
		}
	} else {
		sb.WriteString(key + " ASC")
	}

	stmt := &Statement{}
	if ps.paginate != nil {
		pg := *ps.paginate
		if pg.Page < 1 || pg.Limit < 1 || pg.Limit > MaxLimit || !offsetFits(pg) {
			return nil, errInvalidPaging
		}
		sb.WriteString(" LIMIT " + b.bind(pg.Limit) + " OFFSET " + b.bind(pg.offset()))
		stmt.Page = &pg

		cb := &builder{}
		countFrom, err := fromClause(p, countLookups(ps))
		if err != nil {
			return nil, err
		}
		countWhere, err := whereClause(cb, ps)
		if err != nil {
			return nil, err
		}
		stmt.CountSQL = "SELECT COUNT(*)" + countFrom + countWhere
		stmt.CountArgs = cb.args
	}

	stmt.SQL = sb.String()
	stmt.Args = b.args
	return stmt, nil
}

func selectList(b *builder, p Pipeline, ps *parts) ([]string, error) {
	var cols []string
	for _, f := range p.Fields {
		col, name, err := splitField(f)
		if err != nil {
			return nil, err
		}
		expr := p.As + "." + col
		if name != col {
			expr += " AS " + name
		}
		cols = append(cols, expr)
	}
	for _, l := range ps.lookups {
		for _, f := range l.Fields {
			col, name, err := splitField(f)
			if err != nil {
				return nil, err
			}
			switch {
			case l.Flatten && name == col:
				cols = append(cols, l.As+"."+col)
			case l.Flatten:
				cols = append(cols, l.As+"."+col+" AS "+name)
			default:
				cols = append(cols, l.As+"."+col+` AS "`+l.As+"."+name+`"`)
			}
		}
	}
	for i, d := range ps.derived {
		alias := "d" + strconv.Itoa(i)
		switch s := d.(type) {
		case Count:
			if err := checkAll(s.As, s.Table, s.ForeignField, s.LocalField); err != nil {
				return nil, err
			}
			cols = append(cols, fmt.Sprintf("(SELECT COUNT(*) FROM %s %s WHERE %s.%s = %s) AS %s",
				s.Table, alias, alias, s.ForeignField, s.LocalField, s.As))
		case Exists:
			if err := checkAll(s.As, s.Table, s.ForeignField, s.LocalField, s.ViewerField); err != nil {
				return nil, err
			}
			if s.Viewer == nil {
				cols = append(cols, "FALSE AS "+s.As)
				continue
			}
			cols = append(cols, fmt.Sprintf("EXISTS(SELECT 1 FROM %s %s WHERE %s.%s = %s AND %s.%s = %s) AS %s",
				s.Table, alias, alias, s.ForeignField, s.LocalField, alias, s.ViewerField, b.bind(*s.Viewer), s.As))
		}
	}
	if len(cols) == 0 {
		return nil, errors.New("query: pipeline selects no columns")
	}
	return cols, nil
}

// fromClause renders FROM and the given joins.
func fromClause(p Pipeline, lookups []Lookup) (string, error) {
	var sb strings.Builder
	sb.WriteString(" FROM " + p.From + " " + p.As)
	for _, l := range lookups {
		if err := checkAll(l.Table, l.As, l.LocalField, l.ForeignField); err != nil {
			return "", err
		}
		join := " JOIN "
		if l.Optional {
			join = " LEFT JOIN "
		}
		sb.WriteString(join + l.Table + " " + l.As + " ON " + l.As + "." + l.ForeignField + " = " + l.LocalField)
	}
	return sb.String(), nil
}

// countLookups is the join set of the count statement. An optional
// zero-or-one join cannot change the row count, so it is dropped unless a
// match condition or a kept lookup refers to its alias.
func countLookups(ps *parts) []Lookup {
	needed := map[string]bool{}
	for _, m := range ps.matches {
		for _, c := range m.Conds {
			for _, f := range c.fields() {
				needed[aliasOf(f)] = true
			}
		}
	}
	keep := make([]bool, len(ps.lookups))
	for i := len(ps.lookups) - 1; i >= 0; i-- {
		l := ps.lookups[i]
		if !l.Optional || needed[l.As] {
			keep[i] = true
			needed[aliasOf(l.LocalField)] = true
		}
	}
	out := make([]Lookup, 0, len(ps.lookups))
	for i, l := range ps.lookups {
		if keep[i] {
			out = append(out, l)
		}
	}
	return out
}

func aliasOf(field string) string {
	alias, _, found := strings.Cut(field, ".")
	if !found {
		return ""
	}
	return alias
}

func whereClause(b *builder, ps *parts) (string, error) {
	var conds []string
	for _, m := range ps.matches {
		for _, c := range m.Conds {
			s, err := c.render(b)
			if err != nil {
				return "", err
			}
			conds = append(conds, s)
		}
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), nil
}

func checkAll(names ...string) error {
	for _, n := range names {
		if err := checkIdent(n); err != nil {
			return err
		}
	}
	return nil
}
