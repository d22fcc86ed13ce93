package integrity

import "fmt"

// Resolution decides what happens when a book or author names an author
// or genre that does not exist.
type Resolution string

const (
	// Strict rejects the write with a ReferenceNotFoundError.
	Strict Resolution = "strict"
	// AutoCreate creates the missing entity and proceeds.
	AutoCreate Resolution = "auto-create"
)

// Cascade decides what happens to order records when the book or customer
// they reference is deleted.
type Cascade string

const (
	// Orphan deletes the target and leaves its order records dangling.
	Orphan Cascade = "orphan"
	// CascadeDelete deletes the dependent order records with the target.
	CascadeDelete Cascade = "cascade"
	// Refuse fails with a HasDependentsError while order records remain.
	Refuse Cascade = "refuse"
)

// Policy is fixed for the lifetime of an Engine.
type Policy struct {
	Resolution Resolution
	Cascade    Cascade
}

// DefaultPolicy rejects unknown references and orphans order records.
func DefaultPolicy() Policy {
	return Policy{Resolution: Strict, Cascade: Orphan}
}

func ParseResolution(s string) (Resolution, error) {
	switch r := Resolution(s); r {
	case Strict, AutoCreate:
		return r, nil
	case "":
		return Strict, nil
	default:
		return "", fmt.Errorf("unknown resolution policy %q (want %s or %s)", s, Strict, AutoCreate)
	}
}

func ParseCascade(s string) (Cascade, error) {
	switch c := Cascade(s); c {
	case Orphan, CascadeDelete, Refuse:
		return c, nil
	case "":
		return Orphan, nil
	default:
		return "", fmt.Errorf("unknown cascade policy %q (want %s, %s or %s)", s, Orphan, CascadeDelete, Refuse)
	}
}
