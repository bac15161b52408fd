// Package hierarchy turns the employee to manager reference into a forest.
package hierarchy

import (
	"fmt"
	"strings"

	"go-hris-analytics/internal/store"
)

// CyclicHierarchyError reports a manager chain that loops back on itself.
type CyclicHierarchyError struct {
	// EmployeeID is where the walk re-entered its own chain.
	EmployeeID int64
	// Chain lists the ids on the loop, starting at EmployeeID.
	Chain []int64
}

func (e *CyclicHierarchyError) Error() string {
	parts := make([]string, 0, len(e.Chain)+1)
	for _, id := range e.Chain {
		parts = append(parts, fmt.Sprint(id))
	}
	parts = append(parts, fmt.Sprint(e.EmployeeID))
	return fmt.Sprintf("manager cycle detected at employee %d: %s", e.EmployeeID, strings.Join(parts, " -> "))
}

type Node struct {
	Employee store.Employee
	Level    int
	// Path holds names from the root down to this employee, inclusive.
	Path []string
}

type Forest struct {
	Roots []int64
	// Nodes are in breadth-first order: all roots, then level 1, and so on.
	Nodes []Node
	// Orphans could not be reached from any root.
	Orphans []store.Employee

	byID map[int64]int
}

// Node returns the node for an employee id.
func (f *Forest) Node(id int64) (Node, bool) {
	i, ok := f.byID[id]
	if !ok {
		return Node{}, false
	}
	return f.Nodes[i], true
}

// Depth is the number of levels, 0 for an empty forest.
func (f *Forest) Depth() int {
	depth := 0
	for _, n := range f.Nodes {
		if n.Level+1 > depth {
			depth = n.Level + 1
		}
	}
	return depth
}

const (
	unvisited = iota
	walking
	acyclic
)

// BuildForest checks the manager relation for cycles and then walks it
// breadth first from every employee without a manager. A cycle aborts with
// *CyclicHierarchyError before any node is produced.
func BuildForest(employees []store.Employee) (*Forest, error) {
	byID := make(map[int64]store.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}
	if err := checkAcyclic(employees, byID); err != nil {
		return nil, err
	}

	children := make(map[int64][]store.Employee)
	f := &Forest{byID: make(map[int64]int, len(employees))}
	var queue []Node
	for _, e := range employees {
		if e.ManagerID == nil {
			f.Roots = append(f.Roots, e.ID)
			queue = append(queue, Node{Employee: e, Path: []string{e.Name()}})
			continue
		}
		children[*e.ManagerID] = append(children[*e.ManagerID], e)
	}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		f.byID[n.Employee.ID] = len(f.Nodes)
		f.Nodes = append(f.Nodes, n)

		for _, c := range children[n.Employee.ID] {
			path := make([]string, len(n.Path), len(n.Path)+1)
			copy(path, n.Path)
			queue = append(queue, Node{Employee: c, Level: n.Level + 1, Path: append(path, c.Name())})
		}
	}

	for _, e := range employees {
		if _, ok := f.byID[e.ID]; !ok {
			f.Orphans = append(f.Orphans, e)
		}
	}
	return f, nil
}

// checkAcyclic follows each manager chain at most len(employees) hops.
// Chains already proven acyclic are not walked again.
func checkAcyclic(employees []store.Employee, byID map[int64]store.Employee) error {
	state := make(map[int64]int, len(employees))
	bound := len(employees)

	for _, start := range employees {
		if state[start.ID] != unvisited {
			continue
		}

		var chain []int64
		cur, hops := start, 0
		for {
			switch state[cur.ID] {
			case walking:
				return cycleAt(cur.ID, chain)
			case acyclic:
			default:
				state[cur.ID] = walking
				chain = append(chain, cur.ID)
				if cur.ManagerID != nil {
					if next, ok := byID[*cur.ManagerID]; ok {
						if hops++; hops > bound {
							return cycleAt(cur.ID, chain)
						}
						cur = next
						continue
					}
				}
			}
			break
		}
		for _, id := range chain {
			state[id] = acyclic
		}
	}
	return nil
}

func cycleAt(id int64, chain []int64) error {
	for i, c := range chain {
		if c == id {
			return &CyclicHierarchyError{EmployeeID: id, Chain: append([]int64(nil), chain[i:]...)}
		}
	}
	return &CyclicHierarchyError{EmployeeID: id, Chain: append([]int64(nil), chain...)}
}
