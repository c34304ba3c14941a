package cmd

// Options holds the shared command-line options for the prwatch CLI.
type Options struct {
	Format        string
	Repos         []string // Repositories to watch, overriding the config
	Stale         string   // Stagnation window (e.g., "5d"), overriding the config
	Status        string   // Filter output to a single status
	IncludeDrafts bool
	Verbosity     int
	Workers       int
	TUI           *bool // nil = auto-detect, true = force TUI, false = disable TUI
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{
		Workers: 20,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFormat sets the output format (table, json).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithRepos sets the repositories to watch.
func WithRepos(repos []string) Option {
	return func(o *Options) {
		o.Repos = repos
	}
}

// WithStale sets the stagnation window (e.g., "5d", "2w").
func WithStale(stale string) Option {
	return func(o *Options) {
		o.Stale = stale
	}
}

// WithStatus sets the status filter.
func WithStatus(status string) Option {
	return func(o *Options) {
		o.Status = status
	}
}

// WithIncludeDrafts includes draft PRs in the results.
func WithIncludeDrafts(include bool) Option {
	return func(o *Options) {
		o.IncludeDrafts = include
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithWorkers sets the number of concurrent workers.
func WithWorkers(workers int) Option {
	return func(o *Options) {
		o.Workers = workers
	}
}

// WithTUI controls TUI mode (nil = auto-detect, true = force, false = disable).
func WithTUI(tui *bool) Option {
	return func(o *Options) {
		o.TUI = tui
	}
}
