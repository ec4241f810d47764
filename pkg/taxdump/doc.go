// Package taxdump decodes NCBI taxonomy dumps into record streams.
//
// A dump is either a compressed tar archive (.tar.gz, .tgz, .tar.xz) or a
// directory, holding nodes.dmp and names.dmp. Both files use the same line
// format: fields separated by "|", padded with tabs.
//
//	1	|	1	|	no rank	|	...
//
// [Dump.Nodes] and [Dump.Names] each return a single-use [Stream] that
// re-opens the dump and scans to its member when iterated, so the two
// files can be consumed in any order regardless of their position in the
// archive. Streams report decode failures through Err, the way
// bufio.Scanner does:
//
//	d, err := taxdump.Open("taxdump.tar.gz")
//	nodes := d.Nodes(ctx)
//	defer nodes.Close()
//	for rec := range nodes.All() {
//	    ...
//	}
//	if err := nodes.Err(); err != nil {
//	    ...
//	}
//
// [Load] wires both streams into [taxonomy.Build].
package taxdump
