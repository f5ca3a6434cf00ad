package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Resolution Errors (R001-R019)
	// ============================================

	"R001": {
		Category: CategoryResolution,
		Message:  "Selector matched no node",
		Detail:   "The selector did not resolve to any node attached to the document.",
	},
	"R002": {
		Category: CategoryResolution,
		Message:  "Invalid node argument",
		Detail:   "The argument is neither a node nor a selector string.",
	},

	// ============================================
	// Template Errors (R020-R039)
	// ============================================

	"R020": {
		Category: CategoryTemplate,
		Message:  "Template parse failed",
		Detail:   "The template markup could not be parsed into a node fragment.",
	},
	"R021": {
		Category: CategoryTemplate,
		Message:  "Empty template",
		Detail:   "The template produced no element to use as the view root.",
	},
	"R022": {
		Category: CategoryTemplate,
		Message:  "Unknown filter",
		Detail:   "An interpolation expression names a filter that is not registered.",
	},

	// ============================================
	// Directive Errors (R040-R059)
	// ============================================

	"R040": {
		Category: CategoryDirective,
		Message:  "Duplicate directive matcher",
		Detail:   "A directive is already registered for this matcher.",
	},
	"R041": {
		Category: CategoryDirective,
		Message:  "Directive handler panicked",
		Detail:   "A directive handler panicked while binding a node.",
	},

	// ============================================
	// Lifecycle Errors (R060-R079)
	// ============================================

	"R060": {
		Category: CategoryLifecycle,
		Message:  "View destroyed",
		Detail:   "The view has been destroyed; instance methods are no longer usable.",
	},
	"R061": {
		Category: CategoryLifecycle,
		Message:  "View already rendered",
		Detail:   "A view binds its template exactly once; re-render is not supported.",
	},

	// ============================================
	// Config Errors (R080-R099)
	// ============================================

	"R080": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The ripple.json configuration file is invalid.",
	},
	"R081": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No ripple.json was found in the working directory or its parents.",
	},
}

// Lookup returns the template registered for code, if any.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
