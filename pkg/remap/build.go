package remap

import (
	"context"
	"os"
	"path"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Default fragment locations, in priority order.
const (
	DefaultBase     = "/etc/maven/maven2-versionless-depmap.xml"
	DefaultEtcDir   = "/etc/maven/fragments"
	DefaultShareDir = "/usr/share/maven-fragments"
)

// Sources lists where fragments are read from. Sources are applied in
// field order and later entries overwrite earlier ones.
type Sources struct {
	// Base is the versionless depmap file. It is only read in
	// Versionless mode.
	Base string
	// EtcDir and ShareDir hold fragments applied in sorted filename order.
	EtcDir   string
	ShareDir string
	// Override is an optional extra fragment applied last.
	Override string
}

// DefaultSources returns the standard system locations with no override.
func DefaultSources() Sources {
	return Sources{Base: DefaultBase, EtcDir: DefaultEtcDir, ShareDir: DefaultShareDir}
}

// Options configures [Build].
type Options struct {
	Mode Mode
	// Fs defaults to the OS filesystem.
	Fs afero.Fs
	// Logger defaults to log.Default().
	Logger *log.Logger
	// Concurrency bounds parallel fragment parsing. Defaults to 8.
	Concurrency int
}

// WithDefaults returns a copy of o with zero fields filled in.
func (o Options) WithDefaults() Options {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 8
	}
	return o
}

// fragment is one file queued for parsing. required marks sources whose
// absence is worth a warning.
type fragment struct {
	path     string
	required bool
}

// Build reads every source and returns the resulting table.
//
// Fragments are parsed concurrently but applied strictly in priority
// order, so two builds over the same files produce identical tables.
// Unreadable or malformed fragments are logged and skipped; only context
// cancellation makes Build fail.
func Build(ctx context.Context, src Sources, opts Options) (*Table, error) {
	opts = opts.WithDefaults()
	logger := opts.Logger

	files := plan(src, opts, logger)
	parsed := make([][]Entry, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			parsed[i] = load(opts.Fs, f, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	t := &Table{mode: opts.Mode, entries: make(map[Key]Target)}
	for i, entries := range parsed {
		for _, e := range entries {
			logger.Debug("depmap entry", "source", files[i].path, "from", e.Key.Group+":"+e.Key.Name+":"+e.Key.Version, "to", e.Target.String())
			t.entries[t.key(e.Key.Group, e.Key.Name, e.Key.Version)] = e.Target
		}
	}
	logger.Debug("depmap built", "mode", opts.Mode, "sources", len(files), "entries", t.Len())
	return t, nil
}

// plan lists the fragment files in application order.
func plan(src Sources, opts Options, logger *log.Logger) []fragment {
	var files []fragment
	if opts.Mode == Versionless && src.Base != "" {
		files = append(files, fragment{path: src.Base})
	}
	for _, dir := range []string{src.EtcDir, src.ShareDir} {
		for _, name := range listDir(opts.Fs, dir, logger) {
			files = append(files, fragment{path: path.Join(dir, name)})
		}
	}
	if src.Override != "" {
		files = append(files, fragment{path: src.Override, required: true})
	}
	return files
}

// listDir returns the sorted regular file names in dir. A missing
// directory is empty.
func listDir(fs afero.Fs, dir string, logger *log.Logger) []string {
	if dir == "" {
		return nil
	}
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("skipping fragment directory", "dir", dir, "err", err)
		}
		return nil
	}
	names := make([]string, 0, len(infos))
	for _, fi := range infos {
		if fi.IsDir() {
			continue
		}
		names = append(names, fi.Name())
	}
	sort.Strings(names)
	return names
}

func load(fs afero.Fs, f fragment, logger *log.Logger) []Entry {
	data, err := afero.ReadFile(fs, f.path)
	if err != nil {
		if os.IsNotExist(err) && !f.required {
			logger.Debug("fragment not present", "path", f.path)
		} else {
			logger.Warn("skipping unreadable fragment", "path", f.path, "err", err)
		}
		return nil
	}

	entries, skipped, err := ParseFragment(FormatFor(f.path), data)
	if err != nil {
		logger.Warn("skipping malformed fragment", "path", f.path, "err", err)
		return nil
	}
	for _, e := range skipped {
		logger.Warn("skipping malformed record", "path", f.path, "err", e)
	}
	return entries
}
