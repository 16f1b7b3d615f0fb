package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-sitegen/internal/pageplan"
	"github.com/goliatone/go-sitegen/internal/resolvers"
)

const (
	commandValidationCode   = "COMMAND_VALIDATION_FAILED"
	commandContextCanceled  = "COMMAND_CONTEXT_CANCELED"
	commandContextTimeout   = "COMMAND_CONTEXT_TIMEOUT"
	commandContextErrorCode = "COMMAND_CONTEXT_ERROR"
	commandExecuteFailed    = "COMMAND_EXECUTION_FAILED"

	missingTranslationCode = "MISSING_TRANSLATION"
	missingPathEntryCode   = "MISSING_PATH_ENTRY"
	unsupportedLocaleCode  = "UNSUPPORTED_LOCALE"
	emptyTagCode           = "EMPTY_TAG"
)

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(commandValidationCode)
}

func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch err {
	case context.Canceled:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution cancelled").
			WithTextCode(commandContextCanceled)
	case context.DeadlineExceeded:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded").
			WithTextCode(commandContextTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(commandContextErrorCode)
	}
}

// wrapExecuteError tags content faults found while planning pages as
// validation errors so callers can tell bad content from broken tooling.
func wrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, pageplan.ErrMissingTranslation):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "content is missing a translation").
			WithTextCode(missingTranslationCode)
	case errors.Is(err, pageplan.ErrMissingPathEntry):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "path map is missing a locale").
			WithTextCode(missingPathEntryCode)
	case errors.Is(err, pageplan.ErrUnsupportedLocale):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "content uses an unsupported locale").
			WithTextCode(unsupportedLocaleCode)
	case errors.Is(err, resolvers.ErrEmptyTag):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "recipe carries an empty tag").
			WithTextCode(emptyTagCode)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(commandExecuteFailed)
}
