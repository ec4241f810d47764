// Package io provides JSON import and export for taxonomy subtrees.
//
// # Overview
//
// A re-rooted, pruned subtree can be saved once and loaded again instead of
// re-reading the full taxdump. The format is a flat node list plus parent to
// child edges:
//
//	{
//	  "ranks": ["family", "genus", "species"],
//	  "nodes": [
//	    {"id": "9604", "rank": "family", "name": "Hominidae"},
//	    {"id": "9605", "rank": "genus", "name": "Homo"},
//	    {"id": "9606", "rank": "species", "name": "Homo sapiens"}
//	  ],
//	  "edges": [
//	    {"from": "9604", "to": "9605"},
//	    {"from": "9605", "to": "9606"}
//	  ]
//	}
//
// Nodes are listed in pre-order, so the first node is the root and sibling
// order survives a round trip. "name" is omitted for unnamed taxa. "ranks" is
// informational: the reader infers the rank order again from the topology.
//
// # Import
//
// Use [ImportJSON] to read a file, or [ReadJSON] for any io.Reader. Both
// return a [taxonomy.Tree] assembled with [taxonomy.Build], so the usual
// root and unknown-taxon errors apply. A node with two parents or an edge
// naming an unknown node is rejected.
//
// # Export
//
// Use [ExportJSON] to write a file, or [WriteJSON] for any io.Writer.
package io
