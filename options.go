package factgrid

// Options holds configuration for the Engine.
type Options struct {
	trace             TraceSink
	defaults          DefaultMembers
	adjustments       *AdjustmentLookup
	labelSeparator    string
	titleSeparator    string
	preferredCurrency string
}

func defaultOptions() *Options {
	return &Options{
		trace:             NopTrace{},
		defaults:          DefaultMembers{},
		labelSeparator:    " | ",
		titleSeparator:    " - ",
		preferredCurrency: preferredCurrency,
	}
}

// Option configures the Engine.
type Option func(*Options)

// WithTrace sets the sink that receives diagnostics.
func WithTrace(sink TraceSink) Option {
	return func(o *Options) {
		if sink != nil {
			o.trace = sink
		}
	}
}

// WithDefaultMembers sets the axis default-member lookup.
func WithDefaultMembers(dm DefaultMembers) Option {
	return func(o *Options) {
		for axis, s := range dm {
			o.defaults[axis] = s
		}
	}
}

// WithDefaultMember declares the default member of one axis.
func WithDefaultMember(axis, member, label string) Option {
	return func(o *Options) {
		o.defaults[axis] = Segment{Axis: axis, Member: member, Label: label, IsDefault: true}
	}
}

// WithAdjustmentLookup sets the adjustment / previously-reported lookup used
// by equity reconstruction.
func WithAdjustmentLookup(l *AdjustmentLookup) Option {
	return func(o *Options) { o.adjustments = l }
}

// WithLabelSeparator sets the text joining label fragments (default: " | ").
func WithLabelSeparator(sep string) Option {
	return func(o *Options) { o.labelSeparator = sep }
}

// WithTitleSeparator sets the text placed between the report title and
// labels promoted into it (default: " - ").
func WithTitleSeparator(sep string) Option {
	return func(o *Options) { o.titleSeparator = sep }
}

// WithPreferredCurrency sets the currency pinned first and kept as the real
// column when currencies are split (default: USD).
func WithPreferredCurrency(code string) Option {
	return func(o *Options) {
		if code != "" {
			o.preferredCurrency = code
		}
	}
}
