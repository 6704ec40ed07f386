package dag

// BreakCycles removes every edge that closes a cycle and returns how many
// were removed. Sources are visited first so that edges pointing back
// towards a root are the ones dropped.
func (d *DAG) BreakCycles() int {
	back := d.backEdges()
	for _, e := range back {
		d.RemoveEdge(e[0], e[1])
	}
	return len(back)
}

// AssignLayers sets each node's row to the length of the longest path
// from a source, so every dependency sits strictly below its dependents.
// Sources end up in row 0.
//
// The graph must be acyclic; run [DAG.BreakCycles] first. Nodes on a
// cycle keep row 0.
func (d *DAG) AssignLayers() {
	inDegree := make(map[string]int, len(d.nodes))
	rows := make(map[string]int, len(d.nodes))
	queue := make([]string, 0, len(d.nodes))

	for _, id := range d.order {
		degree := d.InDegree(id)
		inDegree[id] = degree
		if degree == 0 {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range d.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	for id, n := range d.nodes {
		n.Row = rows[id]
	}
}
