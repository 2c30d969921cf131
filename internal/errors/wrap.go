package errors

import "fmt"

// Wrap prefixes err with msg, keeping it matchable with errors.Is.
// A nil err stays nil, so callers can return Wrap(err, ...) unconditionally.
//
//	if err := repo.ResetIndex(ctx); err != nil {
//	    return errors.Wrap(err, "failed to reset index")
//	}
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
