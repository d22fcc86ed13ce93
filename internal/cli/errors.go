package cli

import (
	"errors"
	"fmt"

	"github.com/mickamy/bookstore/internal/model"
)

// Exit codes, one per failure kind.
const (
	exitFailure           = 1
	exitInvalidInput      = 2
	exitNotFound          = 3
	exitReferenceNotFound = 4
	exitHasDependents     = 5
	exitStoreUnavailable  = 6
)

// describe turns an error into the message shown to the user, naming the
// failure kind and the offending field or identity.
func describe(err error) string {
	var (
		nf   *model.NotFoundError
		rnf  *model.ReferenceNotFoundError
		ife  *model.InvalidFormatError
		ve   *model.ValidationError
		ves  model.ValidationErrors
		hd   *model.HasDependentsError
		unav *model.StoreUnavailableError
	)
	switch {
	case errors.As(err, &nf):
		return fmt.Sprintf("%s %d does not exist", nf.Kind, nf.ID)
	case errors.As(err, &rnf):
		if rnf.Kind == model.KindAuthor || rnf.Kind == model.KindGenre {
			return fmt.Sprintf("%s %q does not exist; add it first or use --resolution auto-create", rnf.Kind, rnf.Key)
		}
		return fmt.Sprintf("%s %s does not exist", rnf.Kind, rnf.Key)
	case errors.As(err, &ife):
		if ife.Field == "order_date" {
			return fmt.Sprintf("invalid order_date %q: expected YYYY-MM-DD", ife.Value)
		}
		return fmt.Sprintf("invalid %s %q", ife.Field, ife.Value)
	case errors.As(err, &ves):
		return "invalid input: " + ves.Error()
	case errors.As(err, &ve):
		return "invalid input: " + ve.Error()
	case errors.As(err, &hd):
		return fmt.Sprintf("%s %d still has %d order record(s); use --cascade cascade or orphan to delete it", hd.Kind, hd.ID, hd.Dependents)
	case errors.As(err, &unav):
		return unav.Error()
	default:
		return err.Error()
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return exitNotFound
	case errors.Is(err, model.ErrReferenceNotFound):
		return exitReferenceNotFound
	case errors.Is(err, model.ErrInvalidFormat), errors.Is(err, model.ErrValidation):
		return exitInvalidInput
	case errors.Is(err, model.ErrHasDependents):
		return exitHasDependents
	case errors.Is(err, model.ErrStoreUnavailable):
		return exitStoreUnavailable
	default:
		return exitFailure
	}
}
