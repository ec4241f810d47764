package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taxmagick/taxmagick/pkg/errors"
	pkgio "github.com/taxmagick/taxmagick/pkg/io"
	"github.com/taxmagick/taxmagick/pkg/source"
	"github.com/taxmagick/taxmagick/pkg/taxdump"
	"github.com/taxmagick/taxmagick/pkg/taxonomy"
)

// dataFlags select and shape the tree every data command works on.
type dataFlags struct {
	url          string
	nameClass    string
	root         string
	ids          string
	noRankSuffix string
	names        bool
}

// addDataFlags registers the shared data flags on cmd. Commands that always
// show names pass withNames=false and set f.names themselves.
func addDataFlags(cmd *cobra.Command, f *dataFlags, withNames bool) {
	cmd.Flags().StringVar(&f.url, "url", "", "taxdump location when no path is given: http(s):// or s3:// (default from config)")
	cmd.Flags().StringVar(&f.nameClass, "name-class", "", `names.dmp name class (default "scientific name")`)
	cmd.Flags().StringVar(&f.root, "root", "", "tax id to root the output at (default 1)")
	cmd.Flags().StringVar(&f.ids, "ids", "", "comma separated tax ids, or a file with one id per line, to keep")
	cmd.Flags().StringVar(&f.noRankSuffix, "no-rank-suffix", "", `name "no rank" taxa after their nearest ranked ancestor plus this suffix`)
	if withNames {
		cmd.Flags().BoolVar(&f.names, "names", false, "load names.dmp and label taxa by name")
	}
}

// dataset is a loaded tree and the node output starts at.
type dataset struct {
	tree   *taxonomy.Tree
	root   *taxonomy.Node
	keep   taxonomy.IDSet
	origin string
}

// loadData resolves the taxdump location, fetches it, builds the tree and
// applies rank expansion, re-rooting and pruning. Ranks are expanded only
// when --no-rank-suffix is given. prune=false leaves the tree whole and only
// validates the keep set, for commands that select per request.
func (c *CLI) loadData(ctx context.Context, args []string, f dataFlags, prune bool) (*dataset, error) {
	logger := loggerFromContext(ctx)

	src := c.cfg.URL
	if f.url != "" {
		src = f.url
	}
	if len(args) > 0 {
		src = args[0]
	}
	nameClass := c.cfg.NameClass
	if f.nameClass != "" {
		nameClass = f.nameClass
	}
	rootID := c.cfg.Root
	if f.root != "" {
		rootID = f.root
	}

	if err := errors.ValidateNameClass(nameClass); err != nil {
		return nil, err
	}
	if err := errors.ValidateTaxID(rootID); err != nil {
		return nil, err
	}
	keep, err := parseKeep(f.ids)
	if err != nil {
		return nil, coded(err, "read ids %s", f.ids)
	}
	if err := errors.ValidateTaxIDs(keep.Sorted()); err != nil {
		return nil, err
	}

	path, origin, err := c.fetch(ctx, src)
	if err != nil {
		return nil, err
	}

	logger.Info("Building tree", "source", path, "names", f.names)
	prog := newProgress(logger)
	spinner := newSpinner(ctx, "Reading taxdump...")
	spinner.Start()
	tree, err := readTree(ctx, path, taxdump.LoadOptions{Names: f.names, NameClass: nameClass})
	if err != nil {
		spinner.StopWithError("Could not read taxdump")
		return nil, coded(err, "load %s", path)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Loaded %d taxa", tree.Len()))
	logger.Debug("Inferred rank order", "ranks", tree.Ranks)

	if f.noRankSuffix != "" {
		if err := tree.ExpandRanks(f.noRankSuffix); err != nil {
			return nil, coded(err, "expand ranks")
		}
	}

	var root *taxonomy.Node
	if prune {
		if len(keep) > 0 {
			logger.Info("Pruning", "root", rootID, "keep", len(keep))
		}
		root, err = tree.Select(rootID, keep)
	} else {
		root, err = tree.Subtree(rootID, keep)
	}
	if err != nil {
		return nil, coded(err, "select root %s", rootID)
	}
	return &dataset{tree: tree, root: root, keep: keep, origin: origin}, nil
}

// readTree loads a taxdump, or a tree exported with "tree -f json" when
// path ends in .json.
func readTree(ctx context.Context, path string, opts taxdump.LoadOptions) (*taxonomy.Tree, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return pkgio.ImportJSON(path)
	}
	return taxdump.Load(ctx, path, opts)
}

// fetch resolves src to a local path, downloading it when remote.
func (c *CLI) fetch(ctx context.Context, src string) (string, string, error) {
	kind, u, err := source.Parse(src)
	if err != nil {
		return "", "", coded(err, "parse source")
	}
	if kind == source.KindLocal {
		if _, err := os.Stat(u.Path); err != nil {
			return "", "", coded(err, "open %s", src)
		}
		return u.Path, iconLocal, nil
	}

	f, err := c.newFetcher(ctx)
	if err != nil {
		return "", "", err
	}
	defer f.Cache.Close()

	spinner := newSpinner(ctx, "Fetching "+src+"...")
	spinner.Start()
	path, cached, err := f.Fetch(ctx, src)
	if err != nil {
		spinner.StopWithError("Fetch failed")
		return "", "", coded(err, "fetch %s", src)
	}
	spinner.Stop()

	if cached {
		return path, iconCached, nil
	}
	return path, iconFresh, nil
}

// newFetcher builds a fetcher from config and global flags.
func (c *CLI) newFetcher(ctx context.Context) (*source.Fetcher, error) {
	cc, keyer, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	dir, err := c.cfg.CacheDir()
	if err != nil {
		cc.Close()
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	ttl, err := c.cfg.CacheTTL()
	if err != nil {
		cc.Close()
		return nil, err
	}

	f := source.NewFetcher(cc, keyer, dir, c.Logger)
	f.TTL = ttl
	f.Refresh = c.flags.refresh
	f.S3 = source.S3Options{
		Region:    c.cfg.S3.Region,
		Endpoint:  c.cfg.S3.Endpoint,
		PathStyle: c.cfg.S3.PathStyle,
	}
	return f, nil
}

// parseKeep reads --ids: a file with one id per line when the value names
// an existing file, otherwise a comma separated list.
func parseKeep(ids string) (taxonomy.IDSet, error) {
	if ids == "" {
		return nil, nil
	}
	if info, err := os.Stat(ids); err == nil && !info.IsDir() {
		f, err := os.Open(ids)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return taxonomy.ReadIDs(f)
	}
	return taxonomy.ParseIDs(ids), nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns w when path is empty or "-", otherwise the created
// file.
func openOutput(w io.Writer, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{w}, nil
	}
	return os.Create(path)
}
