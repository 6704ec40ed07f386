// Package dag holds collected dependency graphs.
//
// [FromDependencies] flattens the tree a dependency collection returns
// into a [DAG] keyed by coordinate: repeated artifacts become one node,
// cycles are broken and every node gets a row equal to its longest
// distance from a root.
//
//	res, _ := sys.CollectDependencies(ctx, sess, req)
//	g := dag.FromDependencies(res.Root)
//	dot := dag.ToDOT(g, dag.DOTOptions{Dashed: []string{"javadir"}})
//	svg, _ := dag.RenderSVG(ctx, dot)
//
// [ToDOT] writes Graphviz DOT with one rank per row; [RenderSVG] renders
// it with the WebAssembly build of Graphviz, so no system binary is
// needed.
package dag
