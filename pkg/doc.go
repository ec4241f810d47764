// Package pkg provides the libraries behind taxmagick, a tool for working
// with the NCBI taxonomy dump.
//
// # Overview
//
// taxmagick reads nodes.dmp and names.dmp from a taxdump archive, builds the
// taxonomy as a tree, infers a linear order for its ranks and writes the
// tree out as indented text, lineage tables, Graphviz diagrams or JSON. The
// pkg directory is organized into these areas:
//
//  1. [taxonomy] - The tree, rank inference, rank expansion and pruning
//  2. [taxdump] - Archive detection and .dmp record streaming
//  3. [source] - Local, HTTP and S3 locations with a download cache
//  4. [sink] - Lineage tables as CSV, SQLite or MongoDB
//  5. [render] - DOT generation, Graphviz layout and SVG conversion
//  6. [io] - JSON export and import of trees
//  7. [cache], [config], [errors], [observability] - Supporting infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	taxdump location (path, https://, s3://)
//	         ↓
//	    [source] package (fetch and cache the archive)
//	         ↓
//	    [taxdump] package (stream records)
//	         ↓
//	    [taxonomy] package (build, expand ranks, select)
//	         ↓
//	    text tree / lineages / DOT / SVG / JSON
//
// # Quick Start
//
// Load a taxdump and print the primates:
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/taxmagick/taxmagick/pkg/taxdump"
//	    "github.com/taxmagick/taxmagick/pkg/taxonomy"
//	)
//
//	tree, err := taxdump.Load(context.Background(), "taxdump.tar.gz", taxdump.LoadOptions{Names: true})
//	if err != nil {
//	    return err
//	}
//	if err := tree.ExpandRanks("_"); err != nil {
//	    return err
//	}
//	primates, err := tree.Select("9443", nil)
//	if err != nil {
//	    return err
//	}
//	primates.WriteTree(os.Stdout, 3, taxonomy.DefaultTreeMarker)
//
// # Ranks
//
// Taxdump ranks carry no order. [taxonomy.Tree] infers one from which ranks
// appear under which, and [taxonomy.Tree.ExpandRanks] names every "no rank"
// taxon after its nearest ranked ancestor ("phylum_", "phylum__") so that
// lineage tables get one column per level.
//
// # Caching
//
// Remote archives are cached on disk under the user cache directory, keyed
// by a hash of their URL, with metadata in a [cache.Cache] (a file cache by
// default, Redis when configured). See [source.Fetcher].
package pkg
