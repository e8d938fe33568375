package xlsx

// SharedStringPool de-duplicates text values across a document. Indices are
// assigned in first-seen order starting at 0 and never change.
type SharedStringPool struct {
	index  map[string]int
	values []string
	refs   int
}

// NewSharedStringPool returns an empty pool. The zero value is also usable.
func NewSharedStringPool() *SharedStringPool {
	return &SharedStringPool{index: make(map[string]int)}
}

// Intern returns the index of s, assigning the next free index the first
// time s is seen. Every call counts as one reference.
func (p *SharedStringPool) Intern(s string) int {
	p.refs++
	if i, ok := p.index[s]; ok {
		return i
	}
	if p.index == nil {
		p.index = make(map[string]int)
	}
	i := len(p.values)
	p.values = append(p.values, s)
	p.index[s] = i
	return i
}

// DistinctCount is the number of unique strings (the sst uniqueCount).
func (p *SharedStringPool) DistinctCount() int {
	return len(p.values)
}

// ReferenceCount is the number of Intern calls (the sst count).
func (p *SharedStringPool) ReferenceCount() int {
	return p.refs
}

// Values returns the distinct strings in index order.
func (p *SharedStringPool) Values() []string {
	out := make([]string, len(p.values))
	copy(out, p.values)
	return out
}
