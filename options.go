package troupe

// Options collects the per-request knobs a chat call accepts. Providers read
// the fields they understand and ignore the rest.
type Options struct {
	Model     string
	MaxTokens int
	// Temperature is a pointer so zero is distinguishable from unset;
	// nil leaves the provider's default in place.
	Temperature *float64
	// Tools declares the functions the model may request during this call.
	Tools []Tool
	// ToolChoice controls how the model uses the declared tools.
	ToolChoice ToolChoice
}

// Option mutates the Options for a single request.
type Option func(*Options)

// WithModel routes the request to a specific model.
func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithMaxTokens caps the length of the generated response.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// WithTemperature sets the sampling temperature. Higher values produce more
// varied output; each provider clamps to its own supported range.
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.Temperature = &t
	}
}

// WithTools declares tools available to the model for this request.
func WithTools(tools ...Tool) Option {
	return func(o *Options) {
		o.Tools = tools
	}
}

// WithToolChoice controls whether the model must, may, or must not use tools.
func WithToolChoice(choice ToolChoice) Option {
	return func(o *Options) {
		o.ToolChoice = choice
	}
}

// ApplyOptions folds opts into a fresh Options struct. Providers call this
// once at the top of each request.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
