package lazy

import "github.com/flexprice/productcatalog/internal/logger"

type options struct {
	label string
	log   *logger.Logger
}

// Option configures a Value
type Option func(*options)

// WithLabel makes every initialisation and failure of the value observable
// through log. Without a label the value behaves the same but stays silent.
func WithLabel(label string, log *logger.Logger) Option {
	return func(o *options) {
		o.label = label
		o.log = log
		if o.log == nil {
			o.log = logger.L
		}
	}
}
