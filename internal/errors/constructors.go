package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *LinkRouterError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigRequired(field string) *LinkRouterError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ValidationFailed(field, reason string) *LinkRouterError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Build pipeline errors

func RenderFailed(document string, cause error) *LinkRouterError {
	return Wrap(cause, CategoryRender, SeverityError, "markdown rendering failed").
		WithContext("document", document)
}

func RewriteFailed(document string, cause error) *LinkRouterError {
	return Wrap(cause, CategoryRewrite, SeverityError, "link rewriting failed").
		WithContext("document", document)
}

func OutputError(operation string, cause error) *LinkRouterError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "output operation failed").
		WithContext("operation", operation)
}

// Record sink errors

func StoreError(operation string, cause error) *LinkRouterError {
	return Wrap(cause, CategoryStore, SeverityError, "link store operation failed").
		WithContext("operation", operation)
}

func PublishError(subject string, cause error) *LinkRouterError {
	return WrapRetryable(cause, CategoryPublish, SeverityWarning, "link record publish failed").
		WithContext("subject", subject)
}

// Internal errors

func InternalError(message string, cause error) *LinkRouterError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
