// Package symbols provides the label table of an assembly run.
package symbols

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/set"
)

// ErrDuplicateLabel is returned when a label is defined more than once.
var ErrDuplicateLabel = errors.New("duplicate label")

// Label binds a name to a resolved address.
type Label struct {
	Name    string
	Address uint16
	Offset  int // code offset the label points to
	Line    int // source line of the definition, 0 for generated labels
}

// Table tracks label definitions in definition order.
// When duplicate definitions are allowed, a lookup returns the first definition.
type Table struct {
	labels []Label
	index  map[string]int // name to index of the first definition

	used set.Set[string]

	allowDuplicates bool
}

// New creates a new label table.
func New(allowDuplicates bool) *Table {
	return &Table{
		index:           make(map[string]int),
		used:            set.New[string](),
		allowDuplicates: allowDuplicates,
	}
}

// Define adds a label definition.
func (t *Table) Define(label Label) error {
	if i, ok := t.index[label.Name]; ok {
		if !t.allowDuplicates {
			return fmt.Errorf("%w '%s', first defined on line %d", ErrDuplicateLabel, label.Name, t.labels[i].Line)
		}
	} else {
		t.index[label.Name] = len(t.labels)
	}

	t.labels = append(t.labels, label)
	return nil
}

// Get returns the first definition of the named label.
func (t *Table) Get(name string) (Label, bool) {
	i, ok := t.index[name]
	if !ok {
		return Label{}, false
	}
	return t.labels[i], true
}

// Len returns the number of label definitions, including duplicates.
func (t *Table) Len() int {
	return len(t.labels)
}

// Labels returns all label definitions in definition order.
func (t *Table) Labels() []Label {
	labels := make([]Label, len(t.labels))
	copy(labels, t.labels)
	return labels
}

// MarkUsed marks a label as referenced.
func (t *Table) MarkUsed(name string) {
	t.used.Add(name)
}

// Unused returns the first definitions of all labels that were never referenced,
// in definition order.
func (t *Table) Unused() []Label {
	var unused []Label
	for i, label := range t.labels {
		if t.index[label.Name] != i || t.used.Contains(label.Name) {
			continue
		}
		unused = append(unused, label)
	}
	return unused
}
