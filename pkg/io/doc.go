// Package io provides JSON import and export for license-annotated
// dependency graphs.
//
// # JSON Format
//
// The format has two top-level arrays:
//
//	{
//	  "nodes": [
//	    {"id": "ROOT"},
//	    {"id": "flask==3.0.0", "licenses": ["BSD License"]},
//	    {"id": "click==8.1.7", "licenses": ["BSD License"]}
//	  ],
//	  "edges": [
//	    {"from": "ROOT", "to": "flask==3.0.0"},
//	    {"from": "flask==3.0.0", "to": "click==8.1.7"}
//	  ]
//	}
//
// Node IDs, edges, and license sets round-trip losslessly: a graph written
// with [ExportJSON] and read back with [ImportJSON] is equal to the original.
// Nodes are written sorted by ID, so repeated exports are byte-identical.
//
// The same structure is available as [Document] for storage backends that do
// their own encoding.
//
// # Concurrency
//
// All functions in this package are safe to call concurrently with other
// readers of the same DAG, but not with concurrent modifications to the DAG.
// [ReadJSON], [ImportJSON], and [ToDAG] create independent DAG instances.
package io
